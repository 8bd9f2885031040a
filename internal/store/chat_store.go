package store

import (
	"path/filepath"
	"sort"
	"sync"

	"sealchat/internal/domain"
)

const chatsFilename = "chats.json"

// ChatFileStore remembers the chats opened from this device.
type ChatFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewChatFileStore returns a ChatFileStore rooted at dir.
func NewChatFileStore(dir string) *ChatFileStore {
	return &ChatFileStore{dir: dir}
}

// SaveChat writes or replaces a chat record.
func (s *ChatFileStore) SaveChat(chat domain.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, chatsFilename)
	chats := map[domain.ChatID]domain.Chat{}
	if err := readJSON(path, &chats); err != nil {
		return err
	}
	chats[chat.ID] = chat
	return writeJSON(path, chats, 0o600)
}

// LoadChat retrieves a stored chat.
func (s *ChatFileStore) LoadChat(id domain.ChatID) (domain.Chat, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, chatsFilename)
	chats := map[domain.ChatID]domain.Chat{}
	if err := readJSON(path, &chats); err != nil {
		return domain.Chat{}, false, err
	}
	chat, ok := chats[id]
	return chat, ok, nil
}

// ListChats returns every stored chat, oldest first.
func (s *ChatFileStore) ListChats() ([]domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, chatsFilename)
	chats := map[domain.ChatID]domain.Chat{}
	if err := readJSON(path, &chats); err != nil {
		return nil, err
	}
	out := make([]domain.Chat, 0, len(chats))
	for _, c := range chats {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Compile-time assertion that ChatFileStore implements domain.ChatStore.
var _ domain.ChatStore = (*ChatFileStore)(nil)
