package utils

import (
	"fmt"
	"net/url"
	"strings"

	"examprep/study"
)

// PurchasePrompt builds the messaging-channel link shown with a locked module. The
// message is pre-filled with the course, its price and the module the viewer tried to open.
func PurchasePrompt(channelURL, contact string, e study.LockedEvent) string {
	text := fmt.Sprintf("Hi, I would like to buy the course \"%s\" (Rs. %d) to unlock the module \"%s\".",
		e.CourseTitle, e.CoursePrice, e.ModuleTitle)

	base := strings.TrimRight(channelURL, "/")
	if contact != "" {
		base += "/" + url.PathEscape(contact)
	}
	return base + "?text=" + url.QueryEscape(text)
}
