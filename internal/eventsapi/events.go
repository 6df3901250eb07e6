package eventsapi

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/eventify/eventify-desk/internal/domain"
)

func (c *Client) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.EventSummary, error) {
	params := map[string]string{}
	if filter.Search != "" {
		params["search"] = filter.Search
	}
	if filter.Category != "" {
		params["category"] = filter.Category
	}
	if filter.Date != "" {
		params["date"] = filter.Date
	}
	if filter.Location != "" {
		params["location"] = filter.Location
	}
	if filter.CreatedBy != 0 {
		params["created_by"] = strconv.FormatInt(filter.CreatedBy, 10)
	}
	if filter.RSVPStatus != "" {
		params["rsvp_status"] = string(filter.RSVPStatus)
	}
	var out []domain.EventSummary
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get("/events")
	if err != nil {
		c.setStatus(StatusDisconnected)
		return nil, fmt.Errorf("list events: %w", err)
	}
	c.setStatus(StatusConnected)
	if resp.IsError() {
		return nil, fmt.Errorf("list events %s: %w", resp.Status(), domain.ErrFetchFailed)
	}
	return out, nil
}

func (c *Client) GetEvent(ctx context.Context, id int64) (domain.EventSummary, error) {
	var out domain.EventSummary
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/events/%d", id))
	if err != nil {
		c.setStatus(StatusDisconnected)
		return domain.EventSummary{}, fmt.Errorf("get event %d: %w", id, err)
	}
	c.setStatus(StatusConnected)
	if resp.IsError() {
		return domain.EventSummary{}, fmt.Errorf("get event %d %s: %w", id, resp.Status(), domain.ErrFetchFailed)
	}
	return out, nil
}

// CreateEvent posts a new event, using a multipart body when an image is
// attached and plain JSON otherwise.
func (c *Client) CreateEvent(ctx context.Context, in domain.EventMutation, image *Upload) (domain.EventSummary, error) {
	var out domain.EventSummary
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if image != nil {
		req.SetFileReader("image", image.FileName, bytes.NewReader(image.Content))
		req.SetMultipartFormData(map[string]string{
			"title":         in.Title,
			"description":   in.Description,
			"category":      in.Category,
			"date":          in.Date.Format(time.RFC3339),
			"time":          in.Time,
			"location":      in.Location,
			"max_attendees": strconv.Itoa(in.MaxAttendees),
			"price":         strconv.FormatFloat(in.Price, 'f', -1, 64),
		})
	} else {
		req.SetBody(in)
	}
	resp, err := req.Post("/events")
	if err != nil {
		c.setStatus(StatusDisconnected)
		return domain.EventSummary{}, fmt.Errorf("create event: %w", err)
	}
	c.setStatus(StatusConnected)
	if resp.IsError() {
		return domain.EventSummary{}, fmt.Errorf("create event %s: %w", resp.Status(), domain.ErrFetchFailed)
	}
	return out, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id int64, in domain.EventMutation) (domain.EventSummary, error) {
	var out domain.EventSummary
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(&out).
		Put(fmt.Sprintf("/events/%d", id))
	if err != nil {
		c.setStatus(StatusDisconnected)
		return domain.EventSummary{}, fmt.Errorf("update event %d: %w", id, err)
	}
	c.setStatus(StatusConnected)
	if resp.IsError() {
		return domain.EventSummary{}, fmt.Errorf("update event %d %s: %w", id, resp.Status(), domain.ErrFetchFailed)
	}
	return out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/events/%d", id))
	if err != nil {
		c.setStatus(StatusDisconnected)
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	c.setStatus(StatusConnected)
	if resp.IsError() {
		return fmt.Errorf("delete event %d %s: %w", id, resp.Status(), domain.ErrFetchFailed)
	}
	return nil
}

// SubmitRSVP writes the caller's response for an event. The server upserts
// the record; edit limits are enforced on the client side.
func (c *Client) SubmitRSVP(ctx context.Context, eventID int64, status domain.RSVPStatus) (domain.RSVPRecord, error) {
	if !status.Valid() {
		return domain.RSVPRecord{}, fmt.Errorf("invalid rsvp status %q: %w", status, domain.ErrRSVPSubmitFailed)
	}
	var out domain.RSVPRecord
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"status": string(status)}).
		SetResult(&out).
		Post(fmt.Sprintf("/events/%d/rsvp", eventID))
	if err != nil {
		c.setStatus(StatusDisconnected)
		return domain.RSVPRecord{}, fmt.Errorf("rsvp event %d: %w: %v", eventID, domain.ErrRSVPSubmitFailed, err)
	}
	c.setStatus(StatusConnected)
	if resp.IsError() {
		return domain.RSVPRecord{}, fmt.Errorf("rsvp event %d: %w: %s", eventID, domain.ErrRSVPSubmitFailed, reason(resp))
	}
	return out, nil
}

func (c *Client) ListRSVPs(ctx context.Context, eventID int64) ([]domain.RSVPRecord, error) {
	var out []domain.RSVPRecord
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/events/%d/rsvps", eventID))
	if err != nil {
		c.setStatus(StatusDisconnected)
		return nil, fmt.Errorf("list rsvps for event %d: %w", eventID, err)
	}
	c.setStatus(StatusConnected)
	if resp.IsError() {
		return nil, fmt.Errorf("list rsvps for event %d %s: %w", eventID, resp.Status(), domain.ErrFetchFailed)
	}
	return out, nil
}
