package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
)

func (c *Client) Triggers(ctx context.Context, q models.TriggerQuery) (models.TriggerPage, error) {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Processed != nil {
		v.Set("processed", strconv.FormatBool(*q.Processed))
	}
	page, err := getObject[models.TriggerPage](ctx, c, "/email-triggers", []string{"email_triggers", "total"}, WithQuery(v))
	if err != nil {
		return page, err
	}
	if page.Triggers == nil {
		return page, fmt.Errorf("%w: email_triggers is null", ErrMalformedResponse)
	}
	return page, nil
}

func (c *Client) Trigger(ctx context.Context, id int64) (models.EmailTrigger, error) {
	return getObject[models.EmailTrigger](ctx, c, fmt.Sprintf("/email-triggers/%d", id), []string{"id", "processed"})
}

// ProcessTrigger asks the backend to create a case from a trigger. A trigger
// that cannot be processed comes back as *Error with the backend's message.
func (c *Client) ProcessTrigger(ctx context.Context, id int64) (models.ProcessResult, error) {
	res, err := getObject[models.ProcessResult](ctx, c, fmt.Sprintf("/email-triggers/%d/process", id), []string{"message"}, post(nil)...)
	if err != nil {
		return res, err
	}
	if res.VehicleID == nil {
		return res, fmt.Errorf("%w: vehicle_id missing", ErrMalformedResponse)
	}
	return res, nil
}

func (c *Client) CheckNewEmails(ctx context.Context) (models.CheckNewResult, error) {
	return getObject[models.CheckNewResult](ctx, c, "/email-triggers/check-new", []string{"processed_count"}, post(nil)...)
}

func (c *Client) AutoProcess(ctx context.Context) (models.AutoProcessResult, error) {
	return getObject[models.AutoProcessResult](ctx, c, "/email-triggers/auto-process", []string{"success", "failed"}, post(nil)...)
}
