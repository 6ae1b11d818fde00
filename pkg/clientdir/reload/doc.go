// Package reload keeps a clientdir.Directory in step with its source.
//
// A Reloader loads the full registration set from a source.Source, retries
// transient failures with backoff, and hands the result to the directory.
// Rejected sets are logged and the directory keeps serving its previous
// snapshot.
//
// Reloads can be driven manually (ReloadNow), by any trigger channel (Run),
// by file changes (Watch) or by OS signals (ReloadOnSignal):
//
//	r, err := reload.Bootstrap(ctx, source.NewFile("clients.yaml"),
//	    reload.WithLogger(logger),
//	    reload.WithMetrics(true),
//	)
//	if err != nil {
//	    return err
//	}
//	go r.Watch(ctx)
//
//	dir := r.Directory()
package reload
