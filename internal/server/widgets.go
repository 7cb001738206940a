package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGalleryGet(w http.ResponseWriter, r *http.Request) {
	s.galleryMu.Lock()
	defer s.galleryMu.Unlock()
	s.writeJSON(w, http.StatusOK, s.gallery.View())
}

func (s *Server) handleGalleryFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
	}
	if err := decodeBody(r, &req); err != nil {
		httpError(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.galleryMu.Lock()
	defer s.galleryMu.Unlock()
	s.gallery.Filter(req.Category)
	s.metrics.GalleryAction("filter")
	s.writeJSON(w, http.StatusOK, s.gallery.View())
}

func (s *Server) handleGallerySearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := decodeBody(r, &req); err != nil {
		httpError(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.galleryMu.Lock()
	defer s.galleryMu.Unlock()
	s.gallery.Search(req.Query)
	s.metrics.GalleryAction("search")
	s.writeJSON(w, http.StatusOK, s.gallery.View())
}

func (s *Server) handleGalleryShuffle(w http.ResponseWriter, r *http.Request) {
	s.galleryMu.Lock()
	defer s.galleryMu.Unlock()
	s.gallery.Shuffle()
	s.metrics.GalleryAction("shuffle")
	s.writeJSON(w, http.StatusOK, s.gallery.View())
}

func (s *Server) handleGalleryFavorite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Src string `json:"src"`
	}
	if err := decodeBody(r, &req); err != nil {
		httpError(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Src == "" {
		httpError(w, "src required", http.StatusBadRequest)
		return
	}

	s.galleryMu.Lock()
	defer s.galleryMu.Unlock()
	fav := s.gallery.ToggleFavorite(r.Context(), req.Src)
	s.metrics.GalleryAction("favorite")
	s.writeJSON(w, http.StatusOK, map[string]any{
		"src":       req.Src,
		"favorite":  fav,
		"favorites": s.gallery.Favorites(),
	})
}

func (s *Server) handleLightbox(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")

	var req struct {
		Index  int     `json:"index"`
		Key    string  `json:"key"`
		StartX float64 `json:"start_x"`
		EndX   float64 `json:"end_x"`
	}
	if err := decodeBody(r, &req); err != nil {
		httpError(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.galleryMu.Lock()
	defer s.galleryMu.Unlock()
	switch action {
	case "open":
		if !s.gallery.Open(req.Index) {
			httpError(w, "index out of range", http.StatusBadRequest)
			return
		}
	case "next":
		s.gallery.Next()
	case "prev":
		s.gallery.Prev()
	case "close":
		s.gallery.Close()
	case "zoom":
		s.gallery.ToggleZoom()
	case "key":
		s.gallery.HandleKey(req.Key)
	case "swipe":
		s.gallery.Swipe(req.StartX, req.EndX)
	default:
		httpError(w, "unknown lightbox action "+action, http.StatusNotFound)
		return
	}
	s.metrics.GalleryAction("lightbox_" + action)
	s.writeJSON(w, http.StatusOK, s.gallery.View())
}

func (s *Server) handlePlayerGet(w http.ResponseWriter, r *http.Request) {
	s.playerMu.Lock()
	defer s.playerMu.Unlock()
	s.writeJSON(w, http.StatusOK, s.player.View())
}

func (s *Server) handlePlayerAction(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")

	var req struct {
		Index    int     `json:"index"`
		Percent  float64 `json:"percent"`
		Volume   float64 `json:"volume"`
		Position float64 `json:"position"`
		Duration float64 `json:"duration"`
	}
	if err := decodeBody(r, &req); err != nil {
		httpError(w, "invalid json", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	s.playerMu.Lock()
	defer s.playerMu.Unlock()
	switch action {
	case "play":
		s.player.TogglePlay()
	case "next":
		s.player.Next(ctx)
	case "prev":
		s.player.Prev(ctx)
	case "autoplay":
		s.player.ToggleAutoplay(ctx)
	case "ended":
		s.player.Ended(ctx)
	case "select":
		if !s.player.Select(ctx, req.Index) {
			httpError(w, "index out of range", http.StatusBadRequest)
			return
		}
	case "seek":
		s.player.Seek(req.Percent)
	case "volume":
		s.player.SetVolume(ctx, req.Volume)
	case "tick":
		s.player.Tick(req.Position)
	case "duration":
		s.player.SetDuration(req.Duration)
	default:
		httpError(w, "unknown player action "+action, http.StatusNotFound)
		return
	}
	s.metrics.PlayerAction(action)
	s.writeJSON(w, http.StatusOK, s.player.View())
}
