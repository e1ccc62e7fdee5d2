package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// PushFunc delivers a message to the user who owns the session. Each
// session binds its own PushFunc, so a tool call can never cross chats.
type PushFunc func(ctx context.Context, text string) error

type sendMessageInput struct {
	Message string `json:"message"`
}

type sendMessageOutput struct {
	Delivered bool `json:"delivered"`
}

// NewSendMessageTool lets the agent push an out-of-band message to its
// user, e.g. a fill notification discovered mid-run.
func NewSendMessageTool(push PushFunc) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "send_message_to_user",
			Desc: "Sends a message directly to the user. Use this to notify the user about order updates or anything that should not wait for the final reply.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"message": {
					Type:     "string",
					Desc:     "The message text to send to the user",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input sendMessageInput) (*sendMessageOutput, error) {
			if input.Message == "" {
				return nil, fmt.Errorf("param %q is required", "message")
			}
			if err := push(ctx, input.Message); err != nil {
				return nil, err
			}
			return &sendMessageOutput{Delivered: true}, nil
		},
	)
}
