package attendance

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
)

const EventPunchCreated = "punch.created"

// HubNotifier publishes stored punches on the hub topic of the employee.
type HubNotifier struct {
	hub *sse.Hub
	loc *time.Location
}

func NewHubNotifier(hub *sse.Hub, loc *time.Location) *HubNotifier {
	if loc == nil {
		loc = time.UTC
	}
	return &HubNotifier{hub: hub, loc: loc}
}

// PunchCreated implements attendance.PunchNotifier.
func (n *HubNotifier) PunchCreated(punch attendance.Punch) {
	punch.Timestamp = punch.Timestamp.In(n.loc)
	punch.CreatedAt = punch.CreatedAt.In(n.loc)

	delivered := n.hub.Publish(sse.Event{
		Topic: punch.EmployeeID,
		Event: EventPunchCreated,
		Data:  mapPunchToResponse(punch),
	})
	slog.Debug("Punch event published", "employee_id", punch.EmployeeID, "subscribers", delivered)
}

var _ attendance.PunchNotifier = (*HubNotifier)(nil)
