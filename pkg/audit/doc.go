// Package audit records values altered by the sanitizer.
//
// Recorder implements sanitizer.Reporter. Each change is converted into an
// Event enriched with request metadata (request id, client IP, method, path,
// user agent) and queued for a background goroutine that writes batches to a
// Storage. The request path never waits on storage: a full queue drops the
// event and increments Dropped.
//
//	store := pgstore.New(pool)
//	rec := audit.NewRecorder(store,
//	    audit.WithConfig(cfg.Audit),
//	    audit.WithRequestIDExtractor(requestid.Extractor()),
//	    audit.WithIPExtractor(clientip.Extractor()),
//	)
//	defer rec.Close(context.Background())
//
//	s := sanitizer.New(sanitizer.WithReporters(rec))
//
// Storages: LogStorage (structured log), MemoryStorage (in-process ring),
// pgstore (PostgreSQL) and redisstore (Redis stream). Storages that can list
// events implement Reader.
//
// Mount Middleware ahead of the sanitizing middleware so events carry the
// request method, path and user agent.
package audit
