package api

import "github.com/UBC-CIC/first-responder-admin/internal/app"

// HandlersFromContainer wires the server to a built container.
func HandlersFromContainer(c *app.Container) Handlers {
	return Handlers{
		Router:    c.Router,
		Webhooks:  c.Webhooks,
		Lifecycle: c.LifecycleHandler,

		JoinMeeting:     c.JoinMeetingHandler,
		EndMeeting:      c.EndMeetingHandler,
		KickAttendee:    c.KickAttendeeHandler,
		AnnotateMeeting: c.AnnotateMeetingHandler,
		PageSpecialist:  c.PageSpecialistHandler,
		ListMeetings:    c.ListMeetingsHandler,
		GetMeeting:      c.GetMeetingHandler,

		RegisterSpecialist: c.RegisterSpecialistHandler,
		UpdateUserStatus:   c.UpdateUserStatusHandler,
		ListSpecialists:    c.ListSpecialistsHandler,
		GetSpecialist:      c.GetSpecialistHandler,

		FirstResponders: c.Repos.FirstResponders,
		ServiceDesk:     c.Repos.ServiceDesk,

		Health:  c.Health,
		Metrics: c.Metrics,
	}
}
