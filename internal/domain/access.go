package domain

// Action names a protected operation. Handlers check Allowed(role, action)
// once at the access-control boundary; services below it are role-agnostic.
type Action string

const (
	ActionVisitsManage    Action = "visits.manage"   // create/transition/delete bookings
	ActionVisitsRead      Action = "visits.read"     // list bookings and stats
	ActionVisitorsManage  Action = "visitors.manage" // delete visitor log entries
	ActionVisitorsRead    Action = "visitors.read"
	ActionVisitorsLog     Action = "visitors.log" // register walk-ins
	ActionDonationsRead   Action = "donations.read"
	ActionDonationsReview Action = "donations.review" // accept/reject goods donations
	ActionStaffManage     Action = "staff.manage"
	ActionInternsManage   Action = "interns.manage"
	ActionBoardWatch      Action = "board.watch"
)

var capabilities = map[Role]map[Action]bool{
	RoleAdmin: {
		ActionVisitsManage:    true,
		ActionVisitsRead:      true,
		ActionVisitorsManage:  true,
		ActionVisitorsRead:    true,
		ActionVisitorsLog:     true,
		ActionDonationsRead:   true,
		ActionDonationsReview: true,
		ActionStaffManage:     true,
		ActionInternsManage:   true,
		ActionBoardWatch:      true,
	},
	RoleStaff: {
		ActionVisitsManage:    true,
		ActionVisitsRead:      true,
		ActionVisitorsManage:  true,
		ActionVisitorsRead:    true,
		ActionVisitorsLog:     true,
		ActionDonationsRead:   true,
		ActionDonationsReview: true,
		ActionInternsManage:   true,
		ActionBoardWatch:      true,
	},
	RoleIntern: {
		ActionVisitsManage: true,
		ActionVisitsRead:   true,
		ActionVisitorsRead: true,
		ActionVisitorsLog:  true,
	},
}

// Allowed reports whether the role may perform the action.
func Allowed(role Role, action Action) bool {
	perms, ok := capabilities[role]
	if !ok {
		return false
	}
	return perms[action]
}
