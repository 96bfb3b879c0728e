package observability

const (
	AttrToolName     = "tool.name"
	AttrLLMModel     = "llm.model"
	AttrRunStatus    = "run.status"
	AttrRunIteration = "run.iteration"
	AttrErrorType    = "error.type"

	SpanAgentRun      = "agent.run"
	SpanLLMRequest    = "agent.llm_request"
	SpanToolExecution = "agent.tool_execution"

	DefaultServiceName = "auditor"
)
