package client

import (
	"context"
	"fmt"
	"net/url"

	"barberbook/pkg/model"
)

// AppointmentClient talks to the appointments service.
type AppointmentClient struct {
	httpClient *HttpClient
}

func NewAppointmentClient(httpClient *HttpClient) *AppointmentClient {
	return &AppointmentClient{httpClient: httpClient}
}

func (c *AppointmentClient) Create(ctx context.Context, req *model.AppointmentRequest) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/appointments", req)
}

func (c *AppointmentClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/appointments/id/"+url.PathEscape(id))
}

func (c *AppointmentClient) Transition(ctx context.Context, id string, status model.AppointmentStatus) (*Response, error) {
	path := "/api/v1/appointments/id/" + url.PathEscape(id) + "/transition"
	return c.httpClient.POST(ctx, path, model.TransitionRequest{Status: status})
}

func (c *AppointmentClient) Cancel(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/appointments/id/"+url.PathEscape(id)+"/cancel", struct{}{})
}

func (c *AppointmentClient) ListByCustomer(ctx context.Context, customerID string, limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/customers/%s/appointments?limit=%d&offset=%d", url.PathEscape(customerID), limit, offset)
	return c.httpClient.GET(ctx, path)
}

func (c *AppointmentClient) ListByBarber(ctx context.Context, barberID, date string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	return c.httpClient.GET(ctx, "/api/v1/barbers/"+url.PathEscape(barberID)+"/appointments?"+q.Encode())
}

func (c *AppointmentClient) AvailableSlots(ctx context.Context, barberID, date, serviceID string, duration int) (*Response, error) {
	q := url.Values{}
	q.Set("date", date)
	if serviceID != "" {
		q.Set("service_id", serviceID)
	}
	if duration > 0 {
		q.Set("duration", fmt.Sprintf("%d", duration))
	}
	return c.httpClient.GET(ctx, "/api/v1/barbers/"+url.PathEscape(barberID)+"/slots?"+q.Encode())
}

func (c *AppointmentClient) SetWindow(ctx context.Context, barberID string, window *model.WorkingWindow) (*Response, error) {
	path := "/api/v1/barbers/" + url.PathEscape(barberID) + "/windows/" + url.PathEscape(window.Date)
	return c.httpClient.PUT(ctx, path, window)
}

func DecodeAppointment(resp *Response) (*model.Appointment, error) {
	var appt model.Appointment
	if err := resp.DecodeData(&appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func DecodeSlots(resp *Response) (*model.AvailableSlots, error) {
	var slots model.AvailableSlots
	if err := resp.DecodeData(&slots); err != nil {
		return nil, err
	}
	return &slots, nil
}
