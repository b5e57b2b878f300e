package domain

// Channel is a named one-way message route between the presentation process
// and the host. Names are part of the wire contract with the presentation
// bundle and must not change.
type Channel string

// Presentation → host channels.
const (
	ChannelSetDeviceToken      Channel = "set-device-token"
	ChannelSetUserInfo         Channel = "set-user-info"
	ChannelGetDeviceToken      Channel = "get-device-token"
	ChannelGetUserInfo         Channel = "get-user-info"
	ChannelClearDeviceToken    Channel = "clear-device-token"
	ChannelSetOrUpdateTaskList Channel = "set-or-update-task-list"
	ChannelUpdateTaskContent   Channel = "update-task-content"
)

// Lifecycle channels the presentation shell raises from webview hooks: a
// foreground focus notification and the intercepted top-level navigations.
const (
	ChannelAppFocus         Channel = "app-focus"
	ChannelExternalNavigate Channel = "external-navigate"
)

// Host → presentation channels. The get-* channels above carry no reply;
// retrieval results are delivered out-of-band on these.
const (
	ChannelDeviceToken  Channel = "device-token"
	ChannelUserInfo     Channel = "user-info"
	ChannelRefreshState Channel = "refresh-state"
)

// RefreshPayload is the literal payload sent on ChannelRefreshState when the
// application regains foreground focus.
const RefreshPayload = "refresh"

// TaskContentUpdate 单个任务组的内容更新
type TaskContentUpdate struct {
	GroupID string `json:"groupId"`
	Content string `json:"content"`
}

// TaskList is the full task list as the presentation layer sends it. The
// host stores it verbatim and never interprets individual entries.
type TaskList struct {
	Groups []TaskGroup `json:"groups"`
}

// TaskGroup 任务组
type TaskGroup struct {
	GroupID string `json:"groupId"`
	Content string `json:"content"`
}

// UserProfile is an opaque profile blob. Shape is owned by the presentation
// layer; the host passes it through to storage unmodified.
type UserProfile map[string]interface{}
