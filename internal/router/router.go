package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/wyhaines/boards/internal/middleware"
	"github.com/wyhaines/boards/internal/middleware/metrics"
	"github.com/wyhaines/boards/internal/setup"
)

// New wires every route. Reads that take their caller from the token still
// work for anonymous guests, so only mutating routes sit behind Auth.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	h := deps.Handler
	authed := mw.Auth(deps.Jwt)

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/token", h.Token)

		r.Route("/boards/{board}", func(r chi.Router) {
			// Public reads
			r.Get("/config", h.GetBoardConfig)
			r.Get("/users/{user}/role", h.GetRole)
			r.Get("/users/{user}/permissions", h.GetPermissions)
			r.Get("/users/{user}/ban", h.GetBan)
			r.Get("/threads", h.ListThreads)
			r.Get("/threads/count", h.ThreadCount)
			r.Get("/threads/{thread}", h.GetThread)
			r.Get("/threads/{thread}/replies", h.ListReplies)
			r.Get("/threads/{thread}/replies/count", h.ReplyCount)
			r.Get("/threads/{thread}/replies/{reply}", h.GetReply)
			r.Get("/threads/{thread}/replies/{reply}/children/count", h.ChildrenCount)
			r.Get("/threads/{thread}/flags/count", h.GetFlagCount)
			r.Get("/threads/{thread}/replies/{reply}/flags/count", h.GetFlagCount)
			r.Get("/threads/{thread}/chunks", h.GetChunkCount)
			r.Get("/threads/{thread}/chunks/{index}", h.GetBodyChunk)
			r.Get("/threads/{thread}/replies/{reply}/chunks", h.GetChunkCount)
			r.Get("/threads/{thread}/replies/{reply}/chunks/{index}", h.GetBodyChunk)

			// Everything below acts as the token's principal
			r.Group(func(r chi.Router) {
				r.Use(authed)

				r.Post("/owner", h.SetBoardOwner)
				r.Put("/config", h.UpdateBoardConfig)

				r.Put("/users/{user}/role", h.SetRole)
				r.Post("/users/{user}/ban", h.BanUser)
				r.Delete("/users/{user}/ban", h.UnbanUser)
				r.Get("/bans", h.ListBans)

				r.Post("/invites", h.RequestInvite)
				r.Get("/invites", h.ListInviteRequests)
				r.Post("/invites/{user}/accept", h.AcceptInvite)
				r.Delete("/invites/{user}", h.RevokeInvite)
				r.Post("/members/{user}", h.InviteMember)

				r.Post("/threads", h.CreateThread)
				r.Put("/threads/{thread}", h.EditThread)
				r.Delete("/threads/{thread}", h.DeleteThread)
				r.Post("/threads/{thread}/lock", h.LockThread)
				r.Post("/threads/{thread}/unlock", h.UnlockThread)
				r.Post("/threads/{thread}/pin", h.PinThread)
				r.Post("/threads/{thread}/unpin", h.UnpinThread)
				r.Post("/threads/{thread}/hide", h.HideThread)
				r.Post("/threads/{thread}/unhide", h.UnhideThread)

				r.Post("/threads/{thread}/replies", h.CreateReply)
				r.Put("/threads/{thread}/replies/{reply}", h.EditReply)
				r.Delete("/threads/{thread}/replies/{reply}", h.DeleteReply)
				r.Post("/threads/{thread}/replies/{reply}/hide", h.HideReply)
				r.Post("/threads/{thread}/replies/{reply}/unhide", h.UnhideReply)

				r.Post("/threads/{thread}/flags", h.FlagContent)
				r.Delete("/threads/{thread}/flags", h.UnflagContent)
				r.Get("/threads/{thread}/flags", h.GetFlags)
				r.Post("/threads/{thread}/flags/clear", h.ClearFlags)
				r.Post("/threads/{thread}/replies/{reply}/flags", h.FlagContent)
				r.Delete("/threads/{thread}/replies/{reply}/flags", h.UnflagContent)
				r.Get("/threads/{thread}/replies/{reply}/flags", h.GetFlags)
				r.Post("/threads/{thread}/replies/{reply}/flags/clear", h.ClearFlags)

				r.Get("/flagged", h.GetFlaggedContent)
			})
		})
	})

	// Preflight requests should not 404
	r.MethodFunc("OPTIONS", "/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
