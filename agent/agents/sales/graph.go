package sales

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/contract"
	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

func newPromptTemplate(systemPrompt string) einoprompt.ChatTemplate {
	return einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)
}

func compileToolPlanningGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", newPromptTemplate(systemPrompt)); err != nil {
		return nil, fmt.Errorf("add tool planning prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add tool planning model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add tool planning edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add tool planning edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add tool planning edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("sales.tool_planning_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile sales tool planning graph: %w", err)
	}
	return runner, nil
}

func compileStructuredLLMGraph[T any](
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	graphName string,
) (compose.Runnable[map[string]any, T], error) {
	parser := schema.NewMessageJSONParser[T](&schema.MessageJSONParseConfig{
		ParseFrom: schema.MessageParseFromContent,
	})

	graph := compose.NewGraph[map[string]any, T]()
	if err := graph.AddChatTemplateNode("prompt", newPromptTemplate(systemPrompt)); err != nil {
		return nil, fmt.Errorf("add structured prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add structured model node: %w", err)
	}
	if err := graph.AddLambdaNode("parse_json", compose.MessageParser(parser)); err != nil {
		return nil, fmt.Errorf("add structured parser node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add structured edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add structured edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", "parse_json"); err != nil {
		return nil, fmt.Errorf("add structured edge model->parse: %w", err)
	}
	if err := graph.AddEdge("parse_json", compose.END); err != nil {
		return nil, fmt.Errorf("add structured edge parse->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile structured graph: %w", err)
	}
	return runner, nil
}

// turnState flows through the runtime graph for one customer turn.
type turnState struct {
	Req         turnRequest
	ToolResults []any
}

// compileRuntimeGraph wires validate -> tools -> reply. The tool step may
// leave ToolResults empty, in which case the reply is built from memory alone.
func compileRuntimeGraph(
	ctx context.Context,
	toolFlow func(context.Context, turnRequest) ([]any, error),
	replyFlow func(context.Context, turnRequest, []any) (contractx.Decision, error),
) (compose.Runnable[turnRequest, contractx.Decision], error) {
	graph := compose.NewGraph[turnRequest, contractx.Decision]()

	if err := graph.AddLambdaNode("validate_and_prepare",
		compose.InvokableLambda(func(ctx context.Context, req turnRequest) (*turnState, error) {
			if strings.TrimSpace(req.Utterance) == "" {
				return nil, fmt.Errorf("%w: utterance is required", contractx.ErrValidation)
			}
			return &turnState{Req: req}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add sales runtime validate node: %w", err)
	}

	if err := graph.AddLambdaNode("tool_path",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			if in == nil {
				return nil, fmt.Errorf("%w: sales graph state is nil", contractx.ErrValidation)
			}
			results, err := toolFlow(ctx, in.Req)
			if err != nil {
				return nil, err
			}
			in.ToolResults = results
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add sales runtime tool node: %w", err)
	}

	if err := graph.AddLambdaNode("structured_path",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (contractx.Decision, error) {
			if in == nil {
				return contractx.Decision{}, fmt.Errorf("%w: sales graph state is nil", contractx.ErrValidation)
			}
			return replyFlow(ctx, in.Req, in.ToolResults)
		}),
	); err != nil {
		return nil, fmt.Errorf("add sales runtime structured node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "validate_and_prepare"); err != nil {
		return nil, fmt.Errorf("add sales runtime edge start->validate: %w", err)
	}
	if err := graph.AddEdge("validate_and_prepare", "tool_path"); err != nil {
		return nil, fmt.Errorf("add sales runtime edge validate->tool: %w", err)
	}
	if err := graph.AddEdge("tool_path", "structured_path"); err != nil {
		return nil, fmt.Errorf("add sales runtime edge tool->structured: %w", err)
	}
	if err := graph.AddEdge("structured_path", compose.END); err != nil {
		return nil, fmt.Errorf("add sales runtime edge structured->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("sales.runtime_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile sales runtime graph: %w", err)
	}
	return runner, nil
}
