package internal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationLastN(t *testing.T) {
	c := NewConversation()
	assert.Empty(t, c.LastN(HistoryWindow))

	for i := 1; i <= 5; i++ {
		c.Append(Turn{Role: RoleUser, Content: fmt.Sprintf("m%d", i)})
	}

	last := c.LastN(HistoryWindow)
	assert.Equal(t, []Turn{
		{Role: RoleUser, Content: "m3"},
		{Role: RoleUser, Content: "m4"},
		{Role: RoleUser, Content: "m5"},
	}, last)

	last[0].Content = "changed"
	assert.Equal(t, "m3", c.Turns()[2].Content)
	assert.Equal(t, 5, c.Len())
}

func TestConversationShortHistory(t *testing.T) {
	c := NewConversation()
	c.Append(Turn{Role: RoleUser, Content: "q"})
	c.Append(Turn{Role: RoleAssistant, Content: "a"})

	assert.Len(t, c.LastN(HistoryWindow), 2)
}

func TestConversationClear(t *testing.T) {
	c := NewConversation()
	c.Append(Turn{Role: RoleUser, Content: "q"})
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Turns())
}
