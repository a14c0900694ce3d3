// Package console keeps the per-session screen state of the admin console.
package console

import "errors"

var ErrUnknownSection = errors.New("unknown console section")

type Section string

const (
	SectionDashboard     Section = "dashboard"
	SectionUsers         Section = "users"
	SectionChats         Section = "chats"
	SectionTests         Section = "tests"
	SectionMajors        Section = "majors"
	SectionNotifications Section = "notifications"
)

var sectionLabels = []struct {
	section Section
	label   string
}{
	{SectionDashboard, "Dashboard"},
	{SectionUsers, "Users"},
	{SectionChats, "Chats"},
	{SectionTests, "Tests"},
	{SectionMajors, "Majors"},
	{SectionNotifications, "Notifications"},
}

func (s Section) IsValid() bool {
	for _, entry := range sectionLabels {
		if entry.section == s {
			return true
		}
	}
	return false
}

// MenuItem is one sidebar entry
type MenuItem struct {
	Section Section `json:"section"`
	Label   string  `json:"label"`
	Href    string  `json:"href"`
	Active  bool    `json:"active"`
}

// Menu returns the sidebar with active highlighted
func Menu(active Section) []MenuItem {
	items := make([]MenuItem, 0, len(sectionLabels))
	for _, entry := range sectionLabels {
		items = append(items, MenuItem{
			Section: entry.section,
			Label:   entry.label,
			Href:    "/console/" + string(entry.section),
			Active:  entry.section == active,
		})
	}
	return items
}
