// Package app provides application bootstrap and session management for contacts.
//
// # Architecture Overview
//
// The app package wires the collaborators of the contact list together:
//
// 1. **Bootstrap (`bootstrap.go`)**: configuration loading, logging setup and
// the one-time initial load of the collection
// 2. **Configuration (`config.go`)**: runtime flags of a single invocation
// 3. **Services (`services.go`)**: profile client, renderer, mutation
// generator, metrics
// 4. **Session (`session.go`)**: the owner of the collection after load
// 5. **Watch (`watch.go`)**: follows edits of the mailbox file
//
// # Initial Load
//
// Session reads the mailbox list and resolves every address concurrently
// while a spinner reports progress. Addresses that cannot be resolved become
// placeholder contacts. The load happens once per Application; repeated calls
// return the same Session.
//
// # Mutation Path
//
// After the initial load the collection changes only through Session.Apply:
//
//   - Simulate feeds generated batches through the reconciler and stops once
//     the collection drops below the configured minimum
//   - ApplyFileChange turns an edited mailbox list into delete and insert
//     batches
//
// Each reconciled batch is replayed onto the view model, recycled into the
// insert pool and recorded in the metrics.
//
// # Usage
//
//	application, err := app.NewApplication(app.NewConfig(debug, false, configPath))
//	if err != nil {
//	    return err
//	}
//	session, err := application.Session(ctx)
//	if err != nil {
//	    return err
//	}
//	results, err := session.Simulate(3)
package app
