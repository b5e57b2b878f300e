// Package router dispatches one-way messages from the presentation process
// to the persistence gateways. Channels are fire-and-forget: handlers run
// off the event loop and their results are never awaited by the sender.
package router

import (
	"errors"
	"log"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/taskdeck-app/taskdeck/internal/domain"
	"github.com/taskdeck-app/taskdeck/internal/repository"
)

// Bus registers a handler for a named presentation→host channel. The Wails
// adapter implements it over the runtime event system.
type Bus interface {
	Subscribe(channel domain.Channel, handler func(payload interface{}))
}

// Emitter carries host→presentation replies for the get-* channels.
type Emitter interface {
	EmitEvent(channel domain.Channel, payload interface{})
}

// Gateways 路由器依赖的持久化网关
type Gateways struct {
	Credentials repository.CredentialStore
	Profiles    repository.ProfileRepository
	Tasks       repository.TaskListRepository
}

// Router binds each channel to exactly one gateway operation. Payloads are
// decoded into their channel's closed type at the boundary; anything that
// does not fit is logged and dropped, never forwarded.
type Router struct {
	gw   Gateways
	emit Emitter

	wg sync.WaitGroup
}

func NewRouter(gw Gateways, emit Emitter) *Router {
	return &Router{gw: gw, emit: emit}
}

// Register subscribes one handler per channel on the bus.
func (r *Router) Register(bus Bus) {
	bus.Subscribe(domain.ChannelSetDeviceToken, r.handle(r.setDeviceToken))
	bus.Subscribe(domain.ChannelSetUserInfo, r.handle(r.setUserInfo))
	bus.Subscribe(domain.ChannelGetDeviceToken, r.handle(r.getDeviceToken))
	bus.Subscribe(domain.ChannelGetUserInfo, r.handle(r.getUserInfo))
	bus.Subscribe(domain.ChannelClearDeviceToken, r.handle(r.clearDeviceToken))
	bus.Subscribe(domain.ChannelSetOrUpdateTaskList, r.handle(r.setOrUpdateTaskList))
	bus.Subscribe(domain.ChannelUpdateTaskContent, r.handle(r.updateTaskContent))
	log.Println("[Router] Message channels registered")
}

// handle wraps a channel handler so each message is processed exactly once
// on its own goroutine. Gateway failures are logged here and go no further;
// the router never retries and has no way to answer the sender.
func (r *Router) handle(fn func(payload interface{}) error) func(interface{}) {
	return func(payload interface{}) {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			if err := fn(payload); err != nil {
				log.Printf("Warning: [Router] %v", err)
			}
		}()
	}
}

func (r *Router) setDeviceToken(payload interface{}) error {
	token, ok := payload.(string)
	if !ok {
		return errBadPayload(domain.ChannelSetDeviceToken, payload)
	}
	return r.gw.Credentials.SetDeviceToken(token)
}

func (r *Router) setUserInfo(payload interface{}) error {
	var profile domain.UserProfile
	if err := recode(payload, &profile); err != nil {
		return errBadPayload(domain.ChannelSetUserInfo, payload)
	}
	return r.gw.Profiles.SaveProfile(profile)
}

// getDeviceToken triggers retrieval; the result goes back out-of-band on
// the device-token reply channel, never as a return value on this one.
func (r *Router) getDeviceToken(interface{}) error {
	token, err := r.gw.Credentials.GetDeviceToken()
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			r.emit.EmitEvent(domain.ChannelDeviceToken, "")
			return nil
		}
		return err
	}
	r.emit.EmitEvent(domain.ChannelDeviceToken, token)
	return nil
}

func (r *Router) getUserInfo(interface{}) error {
	profile, err := r.gw.Profiles.GetProfile()
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			r.emit.EmitEvent(domain.ChannelUserInfo, domain.UserProfile{})
			return nil
		}
		return err
	}
	r.emit.EmitEvent(domain.ChannelUserInfo, profile)
	return nil
}

func (r *Router) clearDeviceToken(interface{}) error {
	return r.gw.Credentials.ClearDeviceToken()
}

func (r *Router) setOrUpdateTaskList(payload interface{}) error {
	var list domain.TaskList
	if err := recode(payload, &list); err != nil {
		return errBadPayload(domain.ChannelSetOrUpdateTaskList, payload)
	}
	return r.gw.Tasks.ReplaceAll(list)
}

// updateTaskContent accepts the (group id, content) pair either as a
// positional two-element array or as an object with groupId/content keys;
// older presentation bundles send the positional form.
func (r *Router) updateTaskContent(payload interface{}) error {
	if pair, ok := payload.([]interface{}); ok {
		groupID, okID := "", false
		content, okContent := "", false
		if len(pair) == 2 {
			groupID, okID = pair[0].(string)
			content, okContent = pair[1].(string)
		}
		if !okID || !okContent || groupID == "" {
			return errBadPayload(domain.ChannelUpdateTaskContent, payload)
		}
		return r.gw.Tasks.UpsertGroupContent(groupID, content)
	}

	var update domain.TaskContentUpdate
	if err := recode(payload, &update); err != nil || update.GroupID == "" {
		return errBadPayload(domain.ChannelUpdateTaskContent, payload)
	}
	return r.gw.Tasks.UpsertGroupContent(update.GroupID, update.Content)
}

// recode converts the loosely-typed event payload into the channel's
// concrete type via its JSON form.
func recode(payload interface{}, out interface{}) error {
	data, err := sonic.Marshal(payload)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(data, out)
}

type badPayloadError struct {
	channel domain.Channel
	payload interface{}
}

func (e badPayloadError) Error() string {
	return "malformed payload on " + string(e.channel) + ": dropped"
}

func errBadPayload(channel domain.Channel, payload interface{}) error {
	return badPayloadError{channel: channel, payload: payload}
}
