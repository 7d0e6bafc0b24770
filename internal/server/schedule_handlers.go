package server

import (
	"errors"

	"chapel/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetSchedule handles GET /api/schedule: the next occurrence of every
// weekly template plus upcoming one-off services, soonest first.
func (s *Server) GetSchedule(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	occurrences, err := s.scheduleService.UpcomingOccurrences(c.Context(), p.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"occurrences": occurrences})
}

// GetNextService handles GET /api/schedule/next: the single occurrence the
// landing page features, or null when nothing is scheduled.
func (s *Server) GetNextService(c *fiber.Ctx) error {
	occ, err := s.scheduleService.NextUpcomingService(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"next_service": occ})
}

// AdminGetScheduledServices handles GET /api/admin/schedule/services
func (s *Server) AdminGetScheduledServices(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	services, total, err := s.scheduleRepo.GetAllScheduled(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"services": services, "total": total})
}

// AdminCreateScheduledService handles POST /api/admin/schedule/services
func (s *Server) AdminCreateScheduledService(c *fiber.Ctx) error {
	var svc models.ScheduledService
	if err := c.BodyParser(&svc); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.scheduleService.CreateScheduled(c.Context(), &svc); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(svc)
}

// AdminUpdateScheduledService handles PUT /api/admin/schedule/services/:id
func (s *Server) AdminUpdateScheduledService(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	existing, err := s.scheduleRepo.GetScheduledByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("scheduled service", id))
		}
		return respondServiceError(c, err)
	}

	var svc models.ScheduledService
	if err := c.BodyParser(&svc); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	svc.ID = existing.ID
	svc.CreatedAt = existing.CreatedAt
	if err := s.scheduleRepo.UpdateScheduled(c.Context(), &svc); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(svc)
}

// AdminDeleteScheduledService handles DELETE /api/admin/schedule/services/:id
func (s *Server) AdminDeleteScheduledService(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.scheduleRepo.DeleteScheduled(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminGetRecurringServices handles GET /api/admin/schedule/recurring
func (s *Server) AdminGetRecurringServices(c *fiber.Ctx) error {
	tpls, err := s.scheduleRepo.GetAllRecurring(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"recurring": tpls})
}

// AdminCreateRecurringService handles POST /api/admin/schedule/recurring
func (s *Server) AdminCreateRecurringService(c *fiber.Ctx) error {
	var tpl models.RecurringService
	if err := c.BodyParser(&tpl); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.scheduleService.CreateRecurring(c.Context(), &tpl); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tpl)
}

// AdminUpdateRecurringService handles PUT /api/admin/schedule/recurring/:id
func (s *Server) AdminUpdateRecurringService(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	existing, err := s.scheduleRepo.GetRecurringByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("recurring service", id))
		}
		return respondServiceError(c, err)
	}

	var tpl models.RecurringService
	if err := c.BodyParser(&tpl); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	tpl.ID = existing.ID
	tpl.CreatedAt = existing.CreatedAt
	if tpl.DayOfWeek < 0 || tpl.DayOfWeek > 6 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Day of week must be between 0 (Sunday) and 6 (Saturday)"))
	}
	if err := s.scheduleRepo.UpdateRecurring(c.Context(), &tpl); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tpl)
}

// AdminDeleteRecurringService handles DELETE /api/admin/schedule/recurring/:id
func (s *Server) AdminDeleteRecurringService(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.scheduleRepo.DeleteRecurring(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
