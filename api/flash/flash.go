// Package flash keeps one-shot messages in the session: a message added
// while handling one request is shown by the next render and then dropped.
package flash

import (
	"context"
	"encoding/gob"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/course-shop/api/web"
)

const sessionKey = "flash"

type ctxKey int

const managerKey ctxKey = 1

func init() {
	gob.Register(map[string][]string{})
}

// Middleware makes the session manager available to Add and Pop.
func Middleware(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			ctx = context.WithValue(ctx, managerKey, sm)
			return handler(ctx, w, r.WithContext(ctx))
		}
		return h
	}
	return m
}

func manager(ctx context.Context) *scs.SessionManager {
	sm, _ := ctx.Value(managerKey).(*scs.SessionManager)
	return sm
}

// Add queues msg under kind, e.g. "loginError".
func Add(ctx context.Context, kind, msg string) {
	sm := manager(ctx)
	if sm == nil {
		return
	}

	msgs, _ := sm.Get(ctx, sessionKey).(map[string][]string)
	if msgs == nil {
		msgs = map[string][]string{}
	}
	msgs[kind] = append(msgs[kind], msg)
	sm.Put(ctx, sessionKey, msgs)
}

// Pop returns every queued message and clears the queue.
func Pop(ctx context.Context) map[string][]string {
	sm := manager(ctx)
	if sm == nil {
		return nil
	}

	msgs, _ := sm.Pop(ctx, sessionKey).(map[string][]string)
	return msgs
}
