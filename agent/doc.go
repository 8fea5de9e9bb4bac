// Package agent runs an LLM agent with tools over an in-memory session.
//
// An [LlmAgent] bundles a model name, an instruction and a set of tools.
// [InMemorySessionService] keeps one conversation history per (app, user,
// session) triple. [Runner.Run] takes a user message, drives the model/tool
// loop and streams what happens as [Event] values:
//
//	runner := &agent.Runner{
//	    Agent:          assistant,
//	    AppName:        "ToolEnabledApp",
//	    SessionService: sessions,
//	    Provider:       provider,
//	}
//	for event, err := range runner.Run(ctx, "math_user_01", "math_session", query) {
//	    if err != nil {
//	        return err
//	    }
//	    if event.IsFinalResponse() {
//	        fmt.Println(event.Content)
//	    }
//	}
//
// Tool failures do not stop the run. They are sent back to the model as
// [ai.ToolResult] messages so it can explain them to the user.
package agent
