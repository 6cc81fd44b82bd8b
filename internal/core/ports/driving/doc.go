// Package driving defines interfaces that external actors (CLI, webhook
// receiver) use to interact with the core. These are the "driving" ports
// in hexagonal architecture terminology - they drive the application.
package driving
