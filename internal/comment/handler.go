package comment

import (
	"net/http"

	"comment-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

// Register mounts the comment routes; protect guards the routes that act on
// behalf of a user.
func (h *Handler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.Handle("GET /posts/{post_id}/comments", httpx.Wrap(h.ListByPost))
	mux.Handle("GET /posts/{post_id}/comments/count", httpx.Wrap(h.CountByPost))

	mux.Handle("POST /comments", protect(httpx.Wrap(h.Create)))
	mux.Handle("PUT /comments/{comment_id}", protect(httpx.Wrap(h.Modify)))
	mux.Handle("DELETE /comments/{comment_id}", protect(httpx.Wrap(h.Delete)))
}

func (h *Handler) ListByPost(w http.ResponseWriter, r *http.Request) error {
	pid, err := httpx.PathUint(r, "post_id")
	if err != nil {
		return err
	}
	items, err := h.svc.ListByPost(r.Context(), pid)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"items": items}, http.StatusOK)
	return nil
}

func (h *Handler) CountByPost(w http.ResponseWriter, r *http.Request) error {
	pid, err := httpx.PathUint(r, "post_id")
	if err != nil {
		return err
	}
	n, err := h.svc.CountByPost(r.Context(), pid)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"post_id": pid, "comments": n}, http.StatusOK)
	return nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	username, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	in, err := httpx.Decode[CreateReq](r)
	if err != nil {
		return err
	}
	c, err := h.svc.Create(r.Context(), username, in)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, c, http.StatusCreated)
	return nil
}

func (h *Handler) Modify(w http.ResponseWriter, r *http.Request) error {
	username, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	cid, err := httpx.PathUint(r, "comment_id")
	if err != nil {
		return err
	}
	in, err := httpx.Decode[ModifyReq](r)
	if err != nil {
		return err
	}
	c, err := h.svc.Modify(r.Context(), username, cid, in)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, c, http.StatusOK)
	return nil
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	username, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	cid, err := httpx.PathUint(r, "comment_id")
	if err != nil {
		return err
	}
	res, err := h.svc.Delete(r.Context(), username, cid)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, res, http.StatusOK)
	return nil
}
