// Package formatter turns ansnips records into the short strings and table
// rows the CLI prints.
package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/fatih/color"
)

var (
	Bold    = color.New(color.Bold)
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Warning = color.New(color.FgYellow)
	Faint   = color.New(color.Faint)
)

// now is replaced in tests
var now = time.Now

// Ago renders t relative to now ("just now", "5m", "3h", "2d", then a date)
func Ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now().Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case t.Year() == now().Year():
		return t.Format("Jan 2")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Count abbreviates large numbers: 999, 1.2k, 3.4M
func Count(n int) string {
	switch {
	case n < 1000:
		return strconv.Itoa(n)
	case n < 1000000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1000)) + "k"
	default:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1000000)) + "M"
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// Truncate shortens s to max runes on one line
func Truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

// Handle renders a user as @username, falling back to the id
func Handle(u *api.UserInfo, fallbackID string) string {
	if u == nil || u.Username == "" {
		return fallbackID
	}
	return "@" + u.Username
}

// Duration renders reel seconds as m:ss
func Duration(seconds float64) string {
	s := int(seconds + 0.5)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func mark(on bool, symbol string) string {
	if on {
		return symbol
	}
	return ""
}

// PostColumns are the headers for PostRows
var PostColumns = []string{"ID", "AUTHOR", "CAPTION", "LIKES", "COMMENTS", "", "WHEN"}

// PostRows renders hydrated posts
func PostRows(views []api.PostView) [][]string {
	rows := make([][]string, len(views))
	for i, v := range views {
		rows[i] = []string{
			v.Post.ID,
			Handle(v.Author, v.Post.UserID),
			Truncate(v.Post.Caption, 40),
			Count(v.LikeCount) + mark(v.Liked, " ♥"),
			Count(v.CommentCount),
			mark(v.Saved, "saved"),
			Ago(v.Post.CreatedAt),
		}
	}
	return rows
}

// ReelColumns are the headers for ReelRows
var ReelColumns = []string{"ID", "AUTHOR", "CAPTION", "LENGTH", "LIKES", "COMMENTS", "", "WHEN"}

// ReelRows renders hydrated reels
func ReelRows(views []api.ReelView) [][]string {
	rows := make([][]string, len(views))
	for i, v := range views {
		rows[i] = []string{
			v.Reel.ID,
			Handle(v.Author, v.Reel.UserID),
			Truncate(v.Reel.Caption, 40),
			Duration(v.Reel.Duration),
			Count(v.LikeCount) + mark(v.Liked, " ♥"),
			Count(v.CommentCount),
			mark(v.Saved, "saved"),
			Ago(v.Reel.CreatedAt),
		}
	}
	return rows
}

// CommentColumns are the headers for CommentRows
var CommentColumns = []string{"ID", "AUTHOR", "TEXT", "WHEN"}

// CommentRows renders comments; authors maps user ids to profiles
func CommentRows(comments []api.Comment, authors map[string]*api.UserInfo) [][]string {
	rows := make([][]string, len(comments))
	for i, c := range comments {
		text := Truncate(c.Text, 60)
		if c.Edited {
			text += " (edited)"
		}
		rows[i] = []string{c.ID, Handle(authors[c.UserID], c.UserID), text, Ago(c.CreatedAt)}
	}
	return rows
}

// UserColumns are the headers for UserRows
var UserColumns = []string{"ID", "USERNAME", "NAME", "FOLLOWERS"}

// UserRows renders profiles
func UserRows(users []api.UserInfo) [][]string {
	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{u.ID, "@" + u.Username, u.Name, Count(len(u.Followers))}
	}
	return rows
}

// NotificationColumns are the headers for NotificationRows
var NotificationColumns = []string{"ID", "", "FROM", "WHAT", "WHEN"}

// NotificationRows renders notifications; senders maps ids to profiles
func NotificationRows(notes []api.Notification, senders map[string]*api.UserInfo) [][]string {
	rows := make([][]string, len(notes))
	for i, n := range notes {
		rows[i] = []string{n.ID, mark(!n.IsRead, "•"), Handle(senders[n.SenderID], n.SenderID), n.Message, Ago(n.CreatedAt)}
	}
	return rows
}

// RoomColumns are the headers for RoomRows
var RoomColumns = []string{"ID", "WITH", "LAST MESSAGE", "WHEN"}

// RoomRows renders chat rooms from the point of view of me
func RoomRows(rooms []api.ChatRoom, me string, people map[string]*api.UserInfo) [][]string {
	rows := make([][]string, len(rooms))
	for i, r := range rooms {
		other := r.Other(me)
		last := Truncate(r.LastMessage, 40)
		if r.LastSenderID == me && last != "" {
			last = "You: " + last
		}
		rows[i] = []string{r.ID, Handle(people[other], other), last, Ago(r.LastMessageAt)}
	}
	return rows
}

// MessageLine renders one chat message for a transcript
func MessageLine(m api.Message, me string, people map[string]*api.UserInfo) string {
	who := Handle(people[m.SenderID], m.SenderID)
	if m.SenderID == me {
		who = "you"
	}
	return fmt.Sprintf("[%s] %s: %s", m.CreatedAt.Local().Format("15:04"), who, m.Text)
}
