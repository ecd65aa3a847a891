package code

// 业务返回码，HTTP 状态码统一为 200，结果以 code 区分
const (
	Success     = 0
	ParamErr    = 40001
	SessionErr  = 40002
	ModelErr    = 40003
	NoFileErr   = 40004
	TrainingErr = 40005
	NotFoundErr = 40400
	RemoteErr   = 50201
)

const (
	MsgSuccess  = "success"
	MsgParamErr = "invalid parameters"

	// 以下文案会直接展示给用户
	MsgChatErr      = "Sorry, there was an error processing your request."
	MsgUploadErr    = "Error uploading file. Please try again."
	MsgRetrieveErr  = "Error retrieving file. Please check the folder and file titles."
	MsgEmbeddingErr = "Error generating embeddings."
	MsgTrainingErr  = "Error starting fine-tuning."
	MsgNoFile       = "Please upload a training file first"
)
