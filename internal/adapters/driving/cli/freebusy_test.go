package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

func resetFreeBusyFlags() {
	freebusyFrom = ""
	freebusyTo = ""
}

func TestFreeBusyCmd_Use(t *testing.T) {
	assert.Equal(t, "freebusy [calendar-id]...", freebusyCmd.Use)
}

func TestFreeBusyCmd_RequiredFlags(t *testing.T) {
	for _, name := range []string{"from", "to"} {
		flag := freebusyCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "missing flag %s", name)
		assert.Contains(t, flag.Annotations[cobra.BashCompOneRequiredFlag], "true")
	}
}

func TestFreeBusyCmd_Executes(t *testing.T) {
	provider := &mockCalendarProvider{
		freebusy: map[string][]domain.FreeBusyPeriod{
			"primary": {
				{
					Start:  time.Date(2026, 8, 22, 10, 0, 0, 0, time.Local),
					End:    time.Date(2026, 8, 22, 11, 0, 0, 0, time.Local),
					Status: domain.BusyStatusBusy,
				},
				{
					Start:  time.Date(2026, 8, 22, 14, 0, 0, 0, time.Local),
					End:    time.Date(2026, 8, 22, 15, 30, 0, 0, time.Local),
					Status: domain.BusyStatusTentative,
				},
			},
		},
	}
	restore := swapServices(Services{Provider: provider})
	defer restore()
	defer resetFreeBusyFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"freebusy", "primary", "team@example.com",
		"--from", "2026-08-22T09:00:00Z",
		"--to", "2026-08-22T18:00:00Z",
	})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Availability")
	assert.Contains(t, out, "primary:")
	assert.Contains(t, out, "Busy")
	assert.Contains(t, out, "Tentative")
	assert.Contains(t, out, "team@example.com:")
	assert.Contains(t, out, "free")
	assert.Equal(t, []string{"primary", "team@example.com"}, provider.lastFreeBusyID)
}

func TestFreeBusyCmd_EndNotAfterStart(t *testing.T) {
	restore := swapServices(Services{Provider: &mockCalendarProvider{}})
	defer restore()
	defer resetFreeBusyFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{
		"freebusy", "primary",
		"--from", "2026-08-23",
		"--to", "2026-08-22",
	})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not after start")
}

func TestFreeBusyCmd_ProviderError(t *testing.T) {
	restore := swapServices(Services{Provider: &mockCalendarProvider{
		err: errors.New("backend down"),
	}})
	defer restore()
	defer resetFreeBusyFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{
		"freebusy", "primary",
		"--from", "2026-08-22",
		"--to", "2026-08-23",
	})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query free/busy")
}

func TestFreeBusyCmd_NotConfigured(t *testing.T) {
	restore := swapServices(Services{})
	defer restore()
	defer resetFreeBusyFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{
		"freebusy", "primary",
		"--from", "2026-08-22",
		"--to", "2026-08-23",
	})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "google provider not configured")
}
