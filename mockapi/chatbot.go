package mockapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/storefront/models"
)

const maxChatMatches = 3

// Chat answers with catalog products whose name shares a word with the
// question. It stands in for the hosted assistant.
func (s *Server) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		fail(c, http.StatusBadRequest, "Message is required")
		return
	}

	var matches []string
	seen := map[string]bool{}
	for _, word := range strings.Fields(strings.ToLower(req.Message)) {
		word = strings.Trim(word, "?!.,")
		if len(word) < 3 {
			continue
		}
		for _, p := range s.store.Products(word, "") {
			if seen[p.ID] || len(matches) == maxChatMatches {
				continue
			}
			seen[p.ID] = true
			matches = append(matches, fmt.Sprintf("%s (%s)", p.Name, p.Price.StringFixed(2)))
		}
	}

	reply := "Sorry, I could not find anything about that. Try asking about a product by name."
	if len(matches) > 0 {
		reply = "Here is what we have: " + strings.Join(matches, ", ") + "."
	}
	c.JSON(http.StatusOK, models.ChatReply{Reply: reply})
}
