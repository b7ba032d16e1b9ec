package users

import (
	"context"
	"fmt"
	"sync"

	"github.com/angelmondragon/delivery-admin/internal/dashboard"
	"github.com/angelmondragon/delivery-admin/internal/querycache"
)

var deleteInvalidates = []querycache.Resource{querycache.ResourceUsers, querycache.ResourceUserStatistics}

// Screen is the users page: a filtered list plus role statistics.
type Screen struct {
	client *Client
	runner *dashboard.Runner

	mu     sync.Mutex
	filter Filter
	list   *querycache.Reader[[]User]

	Stats *querycache.Reader[*Statistics]
}

func NewScreen(client *Client, runner *dashboard.Runner) *Screen {
	return &Screen{client: client, runner: runner}
}

// Mount loads the list and the statistics together. Only a list failure fails
// Mount; a statistics error stays on Stats.
func (s *Screen) Mount(ctx context.Context) error {
	return dashboard.Prefetch(ctx,
		func(ctx context.Context) error {
			s.mu.Lock()
			filter := s.filter
			s.mu.Unlock()
			return s.mountList(ctx, filter)
		},
		func(ctx context.Context) error {
			s.Stats = querycache.Mount(ctx, s.runner.Cache(), querycache.UserStatisticsKey(), s.client.Statistics)
			return nil
		},
	)
}

// SetFilter remounts the list under the key for the new filter. Filters
// already seen are served from the cache.
func (s *Screen) SetFilter(ctx context.Context, filter Filter) error {
	s.mu.Lock()
	same := s.filter == filter && s.list != nil
	s.mu.Unlock()
	if same {
		return nil
	}
	return s.mountList(ctx, filter)
}

func (s *Screen) mountList(ctx context.Context, filter Filter) error {
	reader := querycache.Mount(ctx, s.runner.Cache(), querycache.UsersKey(filter.RoleID, filter.Search),
		func(ctx context.Context) ([]User, error) { return s.client.List(ctx, filter) })

	s.mu.Lock()
	old := s.list
	s.list = reader
	s.filter = filter
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}

	_, err := reader.Data()
	return err
}

func (s *Screen) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// List returns the reader for the active filter.
func (s *Screen) List() *querycache.Reader[[]User] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list
}

func (s *Screen) Items() []User {
	list := s.List()
	if list == nil {
		return nil
	}
	items, _ := list.Data()
	return items
}

func (s *Screen) Close() {
	s.mu.Lock()
	list := s.list
	s.list = nil
	s.mu.Unlock()
	if list != nil {
		list.Close()
	}
	if s.Stats != nil {
		s.Stats.Close()
	}
}

func (s *Screen) Delete(ctx context.Context, id int64) error {
	return s.runner.Do(ctx, dashboard.Mutation{
		Key:         fmt.Sprintf("users.delete:%d", id),
		Confirm:     "Are you sure you want to delete this user?",
		Invalidates: deleteInvalidates,
		Success:     "User deleted successfully!",
		Failure:     "Failed to delete user",
		Run:         func(ctx context.Context) error { return s.client.Delete(ctx, id) },
	})
}
