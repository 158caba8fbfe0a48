package engine

// Question is a trivia prompt. Options is empty for open questions.
type Question struct {
	Text    string   `json:"text"`
	Answer  string   `json:"answer"`
	Options []string `json:"options,omitempty"`
}

// DefaultQuestions is the bundled trivia pool
func DefaultQuestions() []Question {
	return []Question{
		{Text: "What is 7 × 6?", Answer: "42"},
		{Text: "Which of the following is not a prime number?", Answer: "1", Options: []string{"1", "2", "3", "5"}},
		{Text: "What planet is known as the Red Planet?", Answer: "Mars"},
		{Text: "Which of these animals are mammals?", Answer: "Dolphin", Options: []string{"Penguin", "Dolphin", "Crocodile", "Eagle"}},
		{Text: "Who wrote 'Romeo and Juliet'?", Answer: "William Shakespeare"},
		{Text: "Which is not a primary color?", Answer: "Green", Options: []string{"Red", "Blue", "Yellow", "Green"}},
		{Text: "What is the chemical symbol for water?", Answer: "H2O"},
		{Text: "Which country is not in Europe?", Answer: "Brazil", Options: []string{"France", "Germany", "Spain", "Brazil"}},
		{Text: "How many continents are there on Earth?", Answer: "7"},
		{Text: "Which of these numbers is not even?", Answer: "1", Options: []string{"1", "2", "4", "8"}},
	}
}
