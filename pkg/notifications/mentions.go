package notifications

import (
	"fmt"
	"strings"
)

// Mentions configures who gets pinged, and on which job statuses
type Mentions struct {
	Users      []string
	UsersWhen  []string
	Groups     []string
	GroupsWhen []string
}

// AppendMentions adds a line of user mentions, then a line of group mentions,
// each only if the status is in the respective trigger set.
func AppendMentions(text string, status string, m Mentions) string {
	users := nonEmpty(m.Users)
	if contains(m.UsersWhen, status) && len(users) > 0 {
		text += "\n"
		for _, user := range users {
			text += fmt.Sprintf("<@%s> ", user)
		}
	}

	groups := nonEmpty(m.Groups)
	if contains(m.GroupsWhen, status) && len(groups) > 0 {
		text += "\n"
		for _, group := range groups {
			text += groupMention(group) + " "
		}
	}

	return text
}

// groupMention renders broadcast mentions like !channel as <!channel>, anything else as a user group
func groupMention(group string) string {
	if strings.HasPrefix(group, "!") {
		return fmt.Sprintf("<%s>", group)
	}
	return fmt.Sprintf("<!subteam^%s>", group)
}

func nonEmpty(list []string) []string {
	out := []string{}
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if strings.TrimSpace(item) == value {
			return true
		}
	}
	return false
}
