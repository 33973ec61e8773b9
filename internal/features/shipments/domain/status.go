package domain

import "strings"

// Status represents the lifecycle state of a shipment order.
// The set is closed: the backend never emits values outside it, and unknown
// input is mapped to safe defaults rather than rejected.
type Status string

const (
	StatusNew                      Status = "New"
	StatusInPickupStage            Status = "InPickupStage"
	StatusInWarehouse              Status = "InWarehouse"
	StatusDeliveredToAgent         Status = "DeliveredToAgent"
	StatusDelivered                Status = "Delivered"
	StatusPostponed                Status = "Postponed"
	StatusCustomerUnreachable      Status = "CustomerUnreachable"
	StatusRejectedNoShippingFees   Status = "RejectedNoShippingFees"
	StatusRejectedWithShippingFees Status = "RejectedWithShippingFees"
	StatusPartiallyDelivered       Status = "PartiallyDelivered"
	StatusRejectedByUs             Status = "RejectedByUs"
	StatusReturned                 Status = "Returned"
)

// Role identifies the kind of user driving the dashboard.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
	RoleSeller     Role = "seller"
	RoleAgent      Role = "agent"
)

// ParseRole normalizes a role string from the request headers.
// Unknown values pass through; the permission tables treat them like an
// admin for visibility, so a misconfigured role never hides data.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// allStatuses is the canonical ordered listing shown to admins.
var allStatuses = []Status{
	StatusNew,
	StatusInPickupStage,
	StatusInWarehouse,
	StatusDeliveredToAgent,
	StatusDelivered,
	StatusPostponed,
	StatusCustomerUnreachable,
	StatusRejectedNoShippingFees,
	StatusRejectedWithShippingFees,
	StatusPartiallyDelivered,
	StatusRejectedByUs,
	StatusReturned,
}

// sellerStatuses excludes warehouse-internal states sellers never see.
var sellerStatuses = []Status{
	StatusNew,
	StatusInPickupStage,
	StatusDelivered,
	StatusPostponed,
	StatusCustomerUnreachable,
	StatusRejectedNoShippingFees,
	StatusRejectedWithShippingFees,
	StatusRejectedByUs,
}

// agentChangeable is the set of statuses a courier may set on an order.
// InPickupStage is deliberately absent: agents see it but cannot set it.
var agentChangeable = []Status{
	StatusDeliveredToAgent,
	StatusDelivered,
	StatusPostponed,
	StatusCustomerUnreachable,
	StatusPartiallyDelivered,
	StatusReturned,
}

// agentVisible is the agent's changeable set plus InPickupStage.
var agentVisible = append([]Status{StatusInPickupStage}, agentChangeable...)

// AvailableStatuses returns the ordered list of statuses a role may view
// and filter by. Unknown roles get the full admin listing.
func AvailableStatuses(role Role) []Status {
	switch role {
	case RoleSeller:
		return cloneStatuses(sellerStatuses)
	case RoleAgent:
		return cloneStatuses(agentVisible)
	default:
		return cloneStatuses(allStatuses)
	}
}

// ChangeableStatuses returns the ordered list of statuses a role may set.
// A seller may only keep an order New or self-reject it.
func ChangeableStatuses(role Role) []Status {
	switch role {
	case RoleSeller:
		return []Status{StatusNew, StatusRejectedByUs}
	case RoleAgent:
		return cloneStatuses(agentChangeable)
	default:
		return cloneStatuses(allStatuses)
	}
}

// CanSetStatus reports whether the role is allowed to set the target status.
func CanSetStatus(role Role, target Status) bool {
	for _, s := range ChangeableStatuses(role) {
		if s == target {
			return true
		}
	}
	return false
}

// RequiresAgent reports whether moving an order to the target status needs
// an assigned delivery agent.
func RequiresAgent(target Status) bool {
	switch target {
	case StatusInPickupStage, StatusDeliveredToAgent, StatusReturned:
		return true
	default:
		return false
	}
}

// IsValidStatus reports whether s belongs to the closed status set.
func IsValidStatus(s Status) bool {
	for _, known := range allStatuses {
		if known == s {
			return true
		}
	}
	return false
}

var inProgressSet = map[Status]bool{
	StatusInPickupStage:       true,
	StatusInWarehouse:         true,
	StatusDeliveredToAgent:    true,
	StatusPostponed:           true,
	StatusCustomerUnreachable: true,
	StatusPartiallyDelivered:  true,
}

var rejectedSet = map[Status]bool{
	StatusRejectedNoShippingFees:   true,
	StatusRejectedWithShippingFees: true,
	StatusRejectedByUs:             true,
	StatusReturned:                 true,
}

// IsInProgress reports whether the order is somewhere between pickup and
// delivery. New orders are not yet in progress.
func IsInProgress(s Status) bool {
	return inProgressSet[s]
}

// IsCompleted reports whether the order reached its terminal success state.
func IsCompleted(s Status) bool {
	return s == StatusDelivered
}

// IsRejected reports whether the order ended in a rejection or return.
func IsRejected(s Status) bool {
	return rejectedSet[s]
}

var statusLabels = map[Status]string{
	StatusNew:                      "New",
	StatusInPickupStage:            "In Pickup Stage",
	StatusInWarehouse:              "In Warehouse",
	StatusDeliveredToAgent:         "Delivered To Agent",
	StatusDelivered:                "Delivered",
	StatusPostponed:                "Postponed",
	StatusCustomerUnreachable:      "Customer Unreachable",
	StatusRejectedNoShippingFees:   "Rejected (No Shipping Fees)",
	StatusRejectedWithShippingFees: "Rejected (With Shipping Fees)",
	StatusPartiallyDelivered:       "Partially Delivered",
	StatusRejectedByUs:             "Rejected By Us",
	StatusReturned:                 "Returned",
}

var statusColors = map[Status]string{
	StatusNew:                      "#3b82f6",
	StatusInPickupStage:            "#06b6d4",
	StatusInWarehouse:              "#6366f1",
	StatusDeliveredToAgent:         "#8b5cf6",
	StatusDelivered:                "#22c55e",
	StatusPostponed:                "#f59e0b",
	StatusCustomerUnreachable:      "#f97316",
	StatusRejectedNoShippingFees:   "#ef4444",
	StatusRejectedWithShippingFees: "#dc2626",
	StatusPartiallyDelivered:       "#14b8a6",
	StatusRejectedByUs:             "#b91c1c",
	StatusReturned:                 "#64748b",
}

const defaultStatusColor = "#9ca3af"

// Label returns the display text for a status. Unknown statuses are shown
// verbatim instead of erroring.
func Label(s Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Color returns the display color for a status, with a neutral fallback
// for unknown input.
func Color(s Status) string {
	if color, ok := statusColors[s]; ok {
		return color
	}
	return defaultStatusColor
}

func cloneStatuses(src []Status) []Status {
	out := make([]Status, len(src))
	copy(out, src)
	return out
}
