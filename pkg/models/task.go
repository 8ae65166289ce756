package models

// Operation is the category of a generated question.
type Operation string

const (
	Multiply Operation = "multiply"
	Add      Operation = "add"
	Subtract Operation = "subtract"
)

// Operations lists every category in the order the generator draws from.
var Operations = []Operation{Multiply, Add, Subtract}

// Task is a single quiz question. Fact is set only for multiplication tasks.
type Task struct {
	Question  string    `json:"question"`
	Result    int       `json:"result"`
	Operation Operation `json:"operation"`
	Fact      *FactKey  `json:"fact,omitempty"`
}
