// Package loader registers the HTTP features of the server.
//
// A feature owns a group of routes and decides itself whether it is active:
// the audit feature, for example, stays off when no run history database is
// configured. The Manager keeps registration order, rejects duplicate names
// and mounts every enabled feature on the fiber router.
//
//	mgr := loader.NewManager()
//	mgr.Register(policy.NewFeature(service, log))
//	mgr.Register(audit.NewFeature(history, log))
//	if err := mgr.LoadAll(app); err != nil {
//	    log.Fatal("Failed to load features", zap.Error(err))
//	}
package loader
