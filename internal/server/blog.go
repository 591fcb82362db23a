package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"defnixsite/internal/app"
	"defnixsite/pkg/domain"
)

type postRequest struct {
	Title          *string  `json:"title"`
	Content        *string  `json:"content"`
	Excerpt        *string  `json:"excerpt"`
	CoverImage     *string  `json:"coverImage"`
	AuthorID       *string  `json:"authorId"`
	Status         *string  `json:"status"`
	SeoTitle       *string  `json:"seoTitle"`
	SeoDescription *string  `json:"seoDescription"`
	TagIDs         []string `json:"tagIds"`
	CategoryIDs    []string `json:"categoryIds"`
}

type nameRequest struct {
	Name string `json:"name"`
}

// GET /api/v1/blog/posts is the public published listing; POST creates
// a post and requires admin credentials.
func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, limit := pageParams(r)
		posts, total, err := s.app.ListPublishedPosts(page, limit)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pagedResponse("posts", posts, total, page))
	case http.MethodPost:
		s.adminOnly(s.handleCreatePost).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

// GET /api/v1/blog/posts/{slug} is public; PUT and DELETE address by id
// and require admin credentials.
func (s *Server) handlePostByPath(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, apiPrefix+"/blog/posts/")
	if key == "" || strings.Contains(key, "/") {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		post, err := s.app.GetPublishedPostBySlug(key)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	case http.MethodPut, http.MethodDelete:
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, user domain.AdminUser) {
			s.handleMutatePost(w, r, user, key)
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleSearchPosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	results, err := s.app.SearchPosts(r.URL.Query().Get("q"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": results,
		"count": len(results),
	})
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tags, err := s.app.ListTags()
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": tags, "count": len(tags)})
	case http.MethodPost:
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, _ domain.AdminUser) {
			var req nameRequest
			if err := decodeBody(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			tag, err := s.app.CreateTag(req.Name)
			if err != nil {
				writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, tag)
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		categories, err := s.app.ListCategories()
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": categories, "count": len(categories)})
	case http.MethodPost:
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, _ domain.AdminUser) {
			var req nameRequest
			if err := decodeBody(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			category, err := s.app.CreateCategory(req.Name)
			if err != nil {
				writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, category)
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

// GET /api/v1/blog/admin/posts lists posts in every status for the dashboard.
func (s *Server) handleAdminPosts(w http.ResponseWriter, r *http.Request, _ domain.AdminUser) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	page, limit := pageParams(r)
	posts, total, err := s.app.AdminListPosts(page, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse("posts", posts, total, page))
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request, user domain.AdminUser) {
	var req postRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	post, err := s.app.CreatePost(app.CreatePostInput{
		Title:          deref(req.Title),
		Content:        deref(req.Content),
		Excerpt:        deref(req.Excerpt),
		CoverImage:     deref(req.CoverImage),
		AuthorID:       deref(req.AuthorID),
		Status:         deref(req.Status),
		SeoTitle:       deref(req.SeoTitle),
		SeoDescription: deref(req.SeoDescription),
		TagIDs:         req.TagIDs,
		CategoryIDs:    req.CategoryIDs,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	s.audit(r, "post_create", "success", "user", user.Email, "post", post.ID)
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleMutatePost(w http.ResponseWriter, r *http.Request, user domain.AdminUser, id string) {
	switch r.Method {
	case http.MethodPut:
		var req postRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		post, err := s.app.UpdatePost(id, app.UpdatePostInput{
			Title:          req.Title,
			Content:        req.Content,
			Excerpt:        req.Excerpt,
			CoverImage:     req.CoverImage,
			AuthorID:       req.AuthorID,
			Status:         req.Status,
			SeoTitle:       req.SeoTitle,
			SeoDescription: req.SeoDescription,
			TagIDs:         req.TagIDs,
			CategoryIDs:    req.CategoryIDs,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		s.audit(r, "post_update", "success", "user", user.Email, "post", post.ID)
		writeJSON(w, http.StatusOK, post)
	case http.MethodDelete:
		if err := s.app.DeletePost(id); err != nil {
			writeAppError(w, err)
			return
		}
		s.audit(r, "post_delete", "success", "user", user.Email, "post", id)
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func pageParams(r *http.Request) (page, limit int) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	limit, _ = strconv.Atoi(q.Get("limit"))
	return page, limit
}

// pagedResponse keys the collection by resource name so list payloads read
// as {"posts": [...], "total": N} and so on.
func pagedResponse[T any](key string, items []T, total int64, page int) map[string]any {
	if page < 1 {
		page = 1
	}
	return map[string]any{
		key:     items,
		"total": total,
		"page":  page,
	}
}
