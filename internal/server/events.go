package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// OrganizerInfo is the read-time join of the owner reference: list
// responses carry the display name, single fetches also carry the email.
// Renaming a user retroactively changes how their events display.
type OrganizerInfo struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type EventResponse struct {
	Event
	Organizer OrganizerInfo `json:"organizer"`
}

func eventResponse(ev Event, includeEmail bool) EventResponse {
	info := OrganizerInfo{ID: ev.OrganizerID, Name: ev.Organizer.Name}
	if includeEmail {
		info.Email = ev.Organizer.Email
	}
	return EventResponse{Event: ev, Organizer: info}
}

type CreateEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	MeetingLink string `json:"meetingLink"`
	IsOnline    bool   `json:"isOnline"`
	Category    string `json:"category" binding:"required"`
	Price       string `json:"price"`
	Capacity    *int   `json:"capacity"`
}

// validateVenue enforces the location xor meeting-link rule.
func validateVenue(isOnline bool, location, meetingLink string) error {
	if isOnline {
		if meetingLink == "" {
			return errors.New("online events require a meeting link")
		}
		if location != "" {
			return errors.New("online events cannot have a location")
		}
		return nil
	}
	if location == "" {
		return errors.New("in-person events require a location")
	}
	if meetingLink != "" {
		return errors.New("in-person events cannot have a meeting link")
	}
	return nil
}

// CreateEvent handles POST /events. The owner is always the authenticated
// caller.
func (s *Server) CreateEvent(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		jsonMessage(c, http.StatusUnauthorized, authFailedMessage)
		return
	}

	var body CreateEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonMessage(c, http.StatusBadRequest, "invalid event data")
		return
	}

	if _, err := time.Parse(dateLayout, body.Date); err != nil {
		jsonMessage(c, http.StatusBadRequest, "invalid date format (use YYYY-MM-DD)")
		return
	}
	if err := validateVenue(body.IsOnline, body.Location, body.MeetingLink); err != nil {
		jsonMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	if body.Capacity != nil && *body.Capacity <= 0 {
		jsonMessage(c, http.StatusBadRequest, "capacity must be a positive number")
		return
	}

	ev := Event{
		Title:       strings.TrimSpace(body.Title),
		Description: body.Description,
		Date:        body.Date,
		Time:        body.Time,
		Location:    body.Location,
		MeetingLink: body.MeetingLink,
		IsOnline:    body.IsOnline,
		Category:    body.Category,
		Price:       body.Price,
		Capacity:    body.Capacity,
		OrganizerID: user.ID,
	}

	if err := s.db.Create(&ev).Error; err != nil {
		s.log.Error(c.Request.Context(), "event create failed", "error", err)
		jsonMessage(c, http.StatusInternalServerError, "could not create event")
		return
	}

	ev.Organizer = *user
	c.JSON(http.StatusCreated, eventResponse(ev, false))
}

// ListEvents handles GET /events. Optional category and date filters are
// exact matches combined with AND; no filters returns the full catalog.
func (s *Server) ListEvents(c *gin.Context) {
	query := s.db.Model(&Event{}).Preload("Organizer")

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if date := c.Query("date"); date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			jsonMessage(c, http.StatusBadRequest, "invalid date format (use YYYY-MM-DD)")
			return
		}
		query = query.Where("date = ?", date)
	}

	var events []Event
	if err := query.Order("date asc").Find(&events).Error; err != nil {
		jsonMessage(c, http.StatusInternalServerError, "could not list events")
		return
	}

	out := make([]EventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, eventResponse(ev, false))
	}
	c.JSON(http.StatusOK, out)
}

// GetEvent handles GET /events/:id with the organizer's name and email.
func (s *Server) GetEvent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		jsonMessage(c, http.StatusBadRequest, "invalid event id")
		return
	}

	var ev Event
	if err := s.db.Preload("Organizer").First(&ev, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonMessage(c, http.StatusNotFound, "Event not found")
			return
		}
		jsonMessage(c, http.StatusInternalServerError, "could not fetch event")
		return
	}

	c.JSON(http.StatusOK, eventResponse(ev, true))
}

type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Location    *string `json:"location"`
	MeetingLink *string `json:"meetingLink"`
	IsOnline    *bool   `json:"isOnline"`
	Category    *string `json:"category"`
	Price       *string `json:"price"`
	Capacity    *int    `json:"capacity"`
}

// UpdateEvent handles PUT /events/:id. Ordering is fixed: existence check,
// then ownership check, then a single merged write. A failed ownership
// check leaves every stored field untouched.
func (s *Server) UpdateEvent(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		jsonMessage(c, http.StatusUnauthorized, authFailedMessage)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		jsonMessage(c, http.StatusBadRequest, "invalid event id")
		return
	}

	var ev Event
	if err := s.db.First(&ev, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonMessage(c, http.StatusNotFound, "Event not found")
			return
		}
		jsonMessage(c, http.StatusInternalServerError, "could not fetch event")
		return
	}

	// Identity equality on the owner reference, nothing else.
	if ev.OrganizerID != user.ID {
		jsonMessage(c, http.StatusForbidden, "Not authorized to update this event")
		return
	}

	var body UpdateEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonMessage(c, http.StatusBadRequest, "invalid event data")
		return
	}

	if body.Title != nil && strings.TrimSpace(*body.Title) != "" {
		ev.Title = strings.TrimSpace(*body.Title)
	}
	if body.Description != nil {
		ev.Description = *body.Description
	}
	if body.Date != nil {
		if _, err := time.Parse(dateLayout, *body.Date); err != nil {
			jsonMessage(c, http.StatusBadRequest, "invalid date format (use YYYY-MM-DD)")
			return
		}
		ev.Date = *body.Date
	}
	if body.Time != nil {
		ev.Time = *body.Time
	}
	if body.IsOnline != nil {
		ev.IsOnline = *body.IsOnline
	}
	if body.Location != nil {
		ev.Location = *body.Location
	}
	if body.MeetingLink != nil {
		ev.MeetingLink = *body.MeetingLink
	}
	if body.Category != nil && *body.Category != "" {
		ev.Category = *body.Category
	}
	if body.Price != nil {
		ev.Price = *body.Price
	}
	if body.Capacity != nil {
		if *body.Capacity <= 0 {
			jsonMessage(c, http.StatusBadRequest, "capacity must be a positive number")
			return
		}
		ev.Capacity = body.Capacity
	}

	if err := validateVenue(ev.IsOnline, ev.Location, ev.MeetingLink); err != nil {
		jsonMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.db.Save(&ev).Error; err != nil {
		jsonMessage(c, http.StatusInternalServerError, "could not update event")
		return
	}

	ev.Organizer = *user
	c.JSON(http.StatusOK, eventResponse(ev, false))
}

// DeleteEvent handles DELETE /events/:id with the same existence-then-
// ownership ordering as UpdateEvent.
func (s *Server) DeleteEvent(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		jsonMessage(c, http.StatusUnauthorized, authFailedMessage)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		jsonMessage(c, http.StatusBadRequest, "invalid event id")
		return
	}

	var ev Event
	if err := s.db.First(&ev, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonMessage(c, http.StatusNotFound, "Event not found")
			return
		}
		jsonMessage(c, http.StatusInternalServerError, "could not fetch event")
		return
	}

	if ev.OrganizerID != user.ID {
		jsonMessage(c, http.StatusForbidden, "Not authorized to delete this event")
		return
	}

	if err := s.db.Delete(&Event{}, ev.ID).Error; err != nil {
		jsonMessage(c, http.StatusInternalServerError, "could not delete event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event removed"})
}

// MyEvents handles GET /events/user/events: the caller's own events.
func (s *Server) MyEvents(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		jsonMessage(c, http.StatusUnauthorized, authFailedMessage)
		return
	}

	var events []Event
	if err := s.db.Where("organizer_id = ?", user.ID).Order("date asc").Find(&events).Error; err != nil {
		jsonMessage(c, http.StatusInternalServerError, "could not list events")
		return
	}

	out := make([]EventResponse, 0, len(events))
	for _, ev := range events {
		ev.Organizer = *user
		out = append(out, eventResponse(ev, false))
	}
	c.JSON(http.StatusOK, out)
}
