// Package session keeps the running matches of the rabbit chase game.
//
// Manager is an in-memory registry of service.Session values, each owning its
// own engine.Match. Matches are not persisted: a restart starts from an
// empty registry.
//
// Match ids are the first eight hex digits of a random UUID and are looked
// up case-insensitively. Callers may also pick their own id.
//
// The manager is safe for concurrent use. It only guards the registry map;
// the game service serialises access to each match.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
//	// drop matches nobody touched for an hour
//	removed := manager.CleanupExpiredSessions(time.Hour)
package session
