package router

import (
	"reflect"
	"testing"

	"github.com/taskdeck-app/taskdeck/internal/domain"
	"github.com/taskdeck-app/taskdeck/internal/repository"
)

// fakeBus delivers messages synchronously to registered handlers.
type fakeBus struct {
	handlers map[domain.Channel]func(payload interface{})
}

func newFakeBus() *fakeBus {
	return &fakeBus{handlers: make(map[domain.Channel]func(interface{}))}
}

func (b *fakeBus) Subscribe(channel domain.Channel, handler func(payload interface{})) {
	b.handlers[channel] = handler
}

func (b *fakeBus) send(t *testing.T, channel domain.Channel, payload interface{}) {
	t.Helper()
	h, ok := b.handlers[channel]
	if !ok {
		t.Fatalf("no handler registered for channel %q", channel)
	}
	h(payload)
}

// fakeGateways counts every operation and keeps the forwarded payloads.
type fakeGateways struct {
	setToken    []string
	getToken    int
	clearToken  int
	savedProfs  []domain.UserProfile
	getProfile  int
	replaced    []domain.TaskList
	upserts     []domain.TaskContentUpdate
	getAll      int
	storedToken string
}

func (g *fakeGateways) SetDeviceToken(token string) error {
	g.setToken = append(g.setToken, token)
	return nil
}

func (g *fakeGateways) GetDeviceToken() (string, error) {
	g.getToken++
	if g.storedToken == "" {
		return "", repository.ErrNotFound
	}
	return g.storedToken, nil
}

func (g *fakeGateways) ClearDeviceToken() error {
	g.clearToken++
	return nil
}

func (g *fakeGateways) SaveProfile(profile domain.UserProfile) error {
	g.savedProfs = append(g.savedProfs, profile)
	return nil
}

func (g *fakeGateways) GetProfile() (domain.UserProfile, error) {
	g.getProfile++
	return domain.UserProfile{"name": "ada"}, nil
}

func (g *fakeGateways) ReplaceAll(list domain.TaskList) error {
	g.replaced = append(g.replaced, list)
	return nil
}

func (g *fakeGateways) UpsertGroupContent(groupID, content string) error {
	g.upserts = append(g.upserts, domain.TaskContentUpdate{GroupID: groupID, Content: content})
	return nil
}

func (g *fakeGateways) GetAll() (domain.TaskList, error) {
	g.getAll++
	return domain.TaskList{}, nil
}

func (g *fakeGateways) opCount() int {
	return len(g.setToken) + g.getToken + g.clearToken +
		len(g.savedProfs) + g.getProfile + len(g.replaced) + len(g.upserts) + g.getAll
}

type fakeEmitter struct {
	events []struct {
		channel domain.Channel
		payload interface{}
	}
}

func (e *fakeEmitter) EmitEvent(channel domain.Channel, payload interface{}) {
	e.events = append(e.events, struct {
		channel domain.Channel
		payload interface{}
	}{channel, payload})
}

func setup() (*fakeBus, *fakeGateways, *fakeEmitter, *Router) {
	bus := newFakeBus()
	gw := &fakeGateways{}
	emit := &fakeEmitter{}
	r := NewRouter(Gateways{Credentials: gw, Profiles: gw, Tasks: gw}, emit)
	r.Register(bus)
	return bus, gw, emit, r
}

func TestChannelDispatch(t *testing.T) {
	tests := []struct {
		name    string
		channel domain.Channel
		payload interface{}
		check   func(t *testing.T, gw *fakeGateways, emit *fakeEmitter)
	}{
		{
			name:    "set-device-token forwards token",
			channel: domain.ChannelSetDeviceToken,
			payload: "tok-123",
			check: func(t *testing.T, gw *fakeGateways, _ *fakeEmitter) {
				if !reflect.DeepEqual(gw.setToken, []string{"tok-123"}) {
					t.Errorf("setToken = %v, want [tok-123]", gw.setToken)
				}
			},
		},
		{
			name:    "set-user-info forwards profile",
			channel: domain.ChannelSetUserInfo,
			payload: map[string]interface{}{"name": "ada", "plan": "pro"},
			check: func(t *testing.T, gw *fakeGateways, _ *fakeEmitter) {
				if len(gw.savedProfs) != 1 || gw.savedProfs[0]["name"] != "ada" {
					t.Errorf("savedProfs = %v, want one profile with name=ada", gw.savedProfs)
				}
			},
		},
		{
			name:    "get-device-token triggers retrieval with out-of-band reply",
			channel: domain.ChannelGetDeviceToken,
			payload: nil,
			check: func(t *testing.T, gw *fakeGateways, emit *fakeEmitter) {
				if gw.getToken != 1 {
					t.Errorf("getToken = %d, want 1", gw.getToken)
				}
				if len(emit.events) != 1 || emit.events[0].channel != domain.ChannelDeviceToken {
					t.Errorf("events = %v, want one device-token reply", emit.events)
				}
			},
		},
		{
			name:    "get-user-info triggers retrieval with out-of-band reply",
			channel: domain.ChannelGetUserInfo,
			payload: nil,
			check: func(t *testing.T, gw *fakeGateways, emit *fakeEmitter) {
				if gw.getProfile != 1 {
					t.Errorf("getProfile = %d, want 1", gw.getProfile)
				}
				if len(emit.events) != 1 || emit.events[0].channel != domain.ChannelUserInfo {
					t.Errorf("events = %v, want one user-info reply", emit.events)
				}
			},
		},
		{
			name:    "clear-device-token clears",
			channel: domain.ChannelClearDeviceToken,
			payload: nil,
			check: func(t *testing.T, gw *fakeGateways, _ *fakeEmitter) {
				if gw.clearToken != 1 {
					t.Errorf("clearToken = %d, want 1", gw.clearToken)
				}
			},
		},
		{
			name:    "set-or-update-task-list replaces whole list",
			channel: domain.ChannelSetOrUpdateTaskList,
			payload: map[string]interface{}{
				"groups": []interface{}{
					map[string]interface{}{"groupId": "inbox", "content": "a\nb"},
				},
			},
			check: func(t *testing.T, gw *fakeGateways, _ *fakeEmitter) {
				want := domain.TaskList{Groups: []domain.TaskGroup{{GroupID: "inbox", Content: "a\nb"}}}
				if len(gw.replaced) != 1 || !reflect.DeepEqual(gw.replaced[0], want) {
					t.Errorf("replaced = %v, want [%v]", gw.replaced, want)
				}
			},
		},
		{
			name:    "update-task-content accepts positional pair",
			channel: domain.ChannelUpdateTaskContent,
			payload: []interface{}{"inbox", "new"},
			check: func(t *testing.T, gw *fakeGateways, _ *fakeEmitter) {
				want := []domain.TaskContentUpdate{{GroupID: "inbox", Content: "new"}}
				if !reflect.DeepEqual(gw.upserts, want) {
					t.Errorf("upserts = %v, want %v", gw.upserts, want)
				}
			},
		},
		{
			name:    "update-task-content upserts one group",
			channel: domain.ChannelUpdateTaskContent,
			payload: map[string]interface{}{"groupId": "inbox", "content": "new"},
			check: func(t *testing.T, gw *fakeGateways, _ *fakeEmitter) {
				want := []domain.TaskContentUpdate{{GroupID: "inbox", Content: "new"}}
				if !reflect.DeepEqual(gw.upserts, want) {
					t.Errorf("upserts = %v, want %v", gw.upserts, want)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus, gw, emit, r := setup()

			bus.send(t, tt.channel, tt.payload)
			r.wg.Wait()

			if got := gw.opCount(); got != 1 {
				t.Errorf("gateway operations = %d, want exactly 1", got)
			}
			tt.check(t, gw, emit)
		})
	}
}

func TestMalformedPayloadsAreDropped(t *testing.T) {
	tests := []struct {
		name    string
		channel domain.Channel
		payload interface{}
	}{
		{name: "token not a string", channel: domain.ChannelSetDeviceToken, payload: 42},
		{name: "task list not an object", channel: domain.ChannelSetOrUpdateTaskList, payload: "oops"},
		{name: "task update missing group id", channel: domain.ChannelUpdateTaskContent, payload: map[string]interface{}{"content": "x"}},
		{name: "task update pair too short", channel: domain.ChannelUpdateTaskContent, payload: []interface{}{"inbox"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus, gw, _, r := setup()

			bus.send(t, tt.channel, tt.payload)
			r.wg.Wait()

			if got := gw.opCount(); got != 0 {
				t.Errorf("gateway operations = %d, want 0 for malformed payload", got)
			}
		})
	}
}

func TestGetDeviceTokenMissingRepliesEmpty(t *testing.T) {
	bus, gw, emit, r := setup()
	gw.storedToken = ""

	bus.send(t, domain.ChannelGetDeviceToken, nil)
	r.wg.Wait()

	if len(emit.events) != 1 || emit.events[0].payload != "" {
		t.Fatalf("events = %v, want one empty device-token reply", emit.events)
	}
}
