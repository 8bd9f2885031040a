package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"sealchat/internal/domain"
)

func TestRootRegistersCommands(t *testing.T) {
	root := newRoot()
	for _, name := range []string{
		"init", "fingerprint", "export-key", "register", "login",
		"chat", "chats", "send", "recv", "watch", "delete",
	} {
		cmd, _, err := root.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, cmd.Name())
		}
	}
}

func TestPrintMessage(t *testing.T) {
	cases := []struct {
		status domain.Status
		want   string
	}{
		{domain.StatusVerified, "bob: hi\n"},
		{domain.StatusUntrusted, "bob (UNVERIFIED SIGNATURE): hi\n"},
		{domain.StatusUnreadable, "bob: <unreadable>\n"},
		{domain.StatusSenderUnknown, "bob: <sender-unknown>\n"},
		{domain.StatusOutgoing, "you: <sent m1>\n"},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			var buf bytes.Buffer
			m := domain.ReceivedMessage{ID: "m1", SenderID: "bob", Status: tc.status}
			if tc.status == domain.StatusVerified || tc.status == domain.StatusUntrusted {
				m.Plaintext = "hi"
			}
			printMessage(&buf, m)
			assert.Contains(t, buf.String(), "] "+tc.want)
		})
	}
}
