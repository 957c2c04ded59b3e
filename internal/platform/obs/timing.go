package obs

import (
	"context"
	"log"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Time logs an operation's duration (and error, if any) when the returned
// func runs, tagged with the request id from the context.
//
//	defer obs.Time(ctx, "cartstore.Save")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID := middleware.GetReqID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s op=%s dur=%dms err=%v", reqID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("req_id=%s op=%s dur=%dms", reqID, name, dur.Milliseconds())
	}
}
