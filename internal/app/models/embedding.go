package models

type EmbeddingModel string

const (
	EmbeddingWord2Vec EmbeddingModel = "Word2Vec"
	EmbeddingGloVe    EmbeddingModel = "GloVe"
	EmbeddingFastText EmbeddingModel = "FastText"
	EmbeddingBERT     EmbeddingModel = "BERT"
)

var EmbeddingModels = []EmbeddingModel{EmbeddingWord2Vec, EmbeddingGloVe, EmbeddingFastText, EmbeddingBERT}

func (m EmbeddingModel) Valid() bool {
	for _, v := range EmbeddingModels {
		if v == m {
			return true
		}
	}
	return false
}

type EmbeddingRequest struct {
	Text  string         `json:"text" binding:"required"`
	Model EmbeddingModel `json:"model"`
}

type EmbeddingReply struct {
	Embeddings [][]float64 `json:"embeddings"`
}

type EmbeddingVisualization struct {
	Word   string    `json:"word"`
	Vector []float64 `json:"vector"`
}
