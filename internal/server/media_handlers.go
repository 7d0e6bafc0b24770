package server

import (
	"errors"

	"chapel/internal/models"
	"chapel/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetVideos handles GET /api/videos with optional series and speaker filters.
func (s *Server) GetVideos(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	videos, total, err := s.mediaRepo.GetPublishedVideos(
		c.Context(), c.Query("series"), c.Query("speaker"), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"videos": videos, "total": total})
}

// SearchVideos handles GET /api/videos/search
func (s *Server) SearchVideos(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query is required"))
	}
	p := parsePagination(c, 20)
	videos, err := s.mediaRepo.SearchVideos(c.Context(), query, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"videos": videos})
}

// GetVideo handles GET /api/videos/:id
func (s *Server) GetVideo(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	video, err := s.mediaRepo.GetVideoByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("video", id))
		}
		return respondServiceError(c, err)
	}
	if !video.Published {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("video", id))
	}
	return c.JSON(video)
}

// GetEbooks handles GET /api/ebooks with an optional category filter.
func (s *Server) GetEbooks(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	ebooks, total, err := s.mediaRepo.GetPublishedEbooks(
		c.Context(), c.Query("category"), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ebooks": ebooks, "total": total})
}

// GetEbook handles GET /api/ebooks/:id
func (s *Server) GetEbook(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	ebook, err := s.mediaRepo.GetEbookByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("ebook", id))
		}
		return respondServiceError(c, err)
	}
	if !ebook.Published {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("ebook", id))
	}
	return c.JSON(ebook)
}

// AdminCreateVideo handles POST /api/admin/videos. A pasted YouTube URL is
// accepted in place of a bare video ID.
func (s *Server) AdminCreateVideo(c *fiber.Ctx) error {
	var video models.Video
	if err := c.BodyParser(&video); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if video.Title == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title is required"))
	}
	if video.YouTubeID != "" {
		extracted := service.ExtractYouTubeID(video.YouTubeID)
		if extracted == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Could not recognize a YouTube video ID"))
		}
		video.YouTubeID = extracted
	}
	if err := s.mediaRepo.CreateVideo(c.Context(), &video); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(video)
}

// AdminUpdateVideo handles PUT /api/admin/videos/:id
func (s *Server) AdminUpdateVideo(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	existing, err := s.mediaRepo.GetVideoByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("video", id))
		}
		return respondServiceError(c, err)
	}

	var video models.Video
	if err := c.BodyParser(&video); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	video.ID = existing.ID
	video.CreatedAt = existing.CreatedAt
	if err := s.mediaRepo.UpdateVideo(c.Context(), &video); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(video)
}

// AdminDeleteVideo handles DELETE /api/admin/videos/:id
func (s *Server) AdminDeleteVideo(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.mediaRepo.DeleteVideo(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminCreateEbook handles POST /api/admin/ebooks
func (s *Server) AdminCreateEbook(c *fiber.Ctx) error {
	var ebook models.Ebook
	if err := c.BodyParser(&ebook); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if ebook.Title == "" || ebook.FileURL == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and file URL are required"))
	}
	if err := s.mediaRepo.CreateEbook(c.Context(), &ebook); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ebook)
}

// AdminUpdateEbook handles PUT /api/admin/ebooks/:id
func (s *Server) AdminUpdateEbook(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	existing, err := s.mediaRepo.GetEbookByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("ebook", id))
		}
		return respondServiceError(c, err)
	}

	var ebook models.Ebook
	if err := c.BodyParser(&ebook); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	ebook.ID = existing.ID
	ebook.CreatedAt = existing.CreatedAt
	if err := s.mediaRepo.UpdateEbook(c.Context(), &ebook); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(ebook)
}

// AdminDeleteEbook handles DELETE /api/admin/ebooks/:id
func (s *Server) AdminDeleteEbook(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.mediaRepo.DeleteEbook(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
