package contentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-content/internal/commands"
	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/persister"
	"github.com/goliatone/go-cms-content/pkg/interfaces"
)

const (
	mapContentMessageType     = "cms.content.map"
	publishContentMessageType = "cms.content.publish"
)

// ContentService is the persister surface the handlers call.
type ContentService interface {
	Persist(ctx context.Context, req persister.PersistRequest) (*dimension.DimensionContent, error)
	Publish(ctx context.Context, req persister.PublishRequest) (*dimension.DimensionContent, error)
}

// MapContentCommand applies input data to the draft dimensions of a locale.
type MapContentCommand struct {
	ResourceKey string         `json:"resource_key"`
	ResourceID  string         `json:"resource_id"`
	Locale      string         `json:"locale"`
	Data        map[string]any `json:"data"`
	ActorID     string         `json:"actor_id,omitempty"`
}

// Type implements command.Message.
func (MapContentCommand) Type() string { return mapContentMessageType }

// Validate ensures the message identifies a dimension.
func (m MapContentCommand) Validate() error {
	return validateIdentity(m.ResourceKey, m.ResourceID, m.Locale, mapContentMessageType)
}

// PublishContentCommand copies the draft dimensions of a locale to live.
type PublishContentCommand struct {
	ResourceKey string `json:"resource_key"`
	ResourceID  string `json:"resource_id"`
	Locale      string `json:"locale"`
	ActorID     string `json:"actor_id,omitempty"`
}

// Type implements command.Message.
func (PublishContentCommand) Type() string { return publishContentMessageType }

// Validate ensures the message identifies a dimension.
func (m PublishContentCommand) Validate() error {
	return validateIdentity(m.ResourceKey, m.ResourceID, m.Locale, publishContentMessageType)
}

func validateIdentity(resourceKey, resourceID, locale, prefix string) error {
	errs := validation.Errors{}
	if resourceKey == "" {
		errs["resource_key"] = validation.NewError(prefix+".resource_key_required", "resource_key is required")
	}
	if resourceID == "" {
		errs["resource_id"] = validation.NewError(prefix+".resource_id_required", "resource_id is required")
	}
	if locale == "" {
		errs["locale"] = validation.NewError(prefix+".locale_required", "locale is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MapContentHandler maps input through the persister.
type MapContentHandler struct {
	inner *commands.Handler[MapContentCommand]
}

// NewMapContentHandler constructs the handler. onMapped, when set, receives
// the merged dimension after a successful mapping.
func NewMapContentHandler(service ContentService, logger interfaces.Logger, onMapped func(*dimension.DimensionContent), opts ...commands.HandlerOption[MapContentCommand]) *MapContentHandler {
	exec := func(ctx context.Context, msg MapContentCommand) error {
		merged, err := service.Persist(ctx, persister.PersistRequest{
			ResourceKey: msg.ResourceKey,
			ResourceID:  msg.ResourceID,
			Locale:      msg.Locale,
			Data:        dimension.Data(msg.Data),
			ActorID:     msg.ActorID,
		})
		if err != nil {
			return err
		}
		if onMapped != nil {
			onMapped(merged)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[MapContentCommand]{
		commands.WithLogger[MapContentCommand](logger),
		commands.WithOperation[MapContentCommand]("content.map"),
	}
	return &MapContentHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[MapContentCommand].
func (h *MapContentHandler) Execute(ctx context.Context, msg MapContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// PublishContentHandler publishes drafts through the persister.
type PublishContentHandler struct {
	inner *commands.Handler[PublishContentCommand]
}

// NewPublishContentHandler constructs the handler.
func NewPublishContentHandler(service ContentService, logger interfaces.Logger, opts ...commands.HandlerOption[PublishContentCommand]) *PublishContentHandler {
	exec := func(ctx context.Context, msg PublishContentCommand) error {
		_, err := service.Publish(ctx, persister.PublishRequest{
			ResourceKey: msg.ResourceKey,
			ResourceID:  msg.ResourceID,
			Locale:      msg.Locale,
			ActorID:     msg.ActorID,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[PublishContentCommand]{
		commands.WithLogger[PublishContentCommand](logger),
		commands.WithOperation[PublishContentCommand]("content.publish"),
	}
	return &PublishContentHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[PublishContentCommand].
func (h *PublishContentHandler) Execute(ctx context.Context, msg PublishContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
