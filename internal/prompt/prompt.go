package prompt

import (
	"adaptivequiz/internal/model"
	"fmt"
	"strings"
)

// LengthHint maps the quiz length labels to question counts
const LengthHint = "(Short: 5-10 questions, Medium: 10-20 questions, Long: 20+ questions)"

// Prompt is the system/user pair sent for one model call
type Prompt struct {
	System string
	User   string
}

const contentSummarySystem = "Generate a clear and concise content summary for the given quizInfo.\n" +
	"It needs to only include the main topics without subtopics in logical order. " +
	"Do not include any examples, explanations, title, and other details.\n\n" +
	"[BEGIN EXAMPLE]\n\n" +
	"user: ANNs\n" +
	"assistant:\n" +
	"* Introduction to ANNs\n" +
	"* Types of ANNs\n" +
	"* Components of ANNs\n" +
	"* How ANNs Work\n" +
	"* Training ANNs\n" +
	"* Applications of ANNs\n\n" +
	"[END EXAMPLE]\n\n" +
	"Generate the response in pretty and simple markdown format using bullet points."

const outlineSystem = "Generate a quiz outline for the given topic.\n" +
	"It needs to include details on the content of the questions without the questions themselves. " +
	"The questions should cover the main topics and key points of the content.\n" +
	"Use the content, subject and level to determine the quiz material and outline. " +
	"Do not include any examples, explanations, titles, or other extraneous details.\n\n" +
	"[BEGIN EXAMPLE]\n\n" +
	"user: ANNs\n" +
	"assistant:\n" +
	"* **Introduction to ANNs**\n" +
	"* **Inspiration from the human brain**\n" +
	"* **Basic concepts and terminology**\n" +
	"* **Types of ANNs**\n" +
	"  * Feedforward neural networks\n" +
	"  * Recurrent neural networks (RNNs)\n" +
	"  * Convolutional neural networks (CNNs)\n" +
	"  * Other types (e.g. autoencoders, generative adversarial networks)\n" +
	"* **Components of ANNs**\n" +
	"  * Artificial neurons (nodes)\n" +
	"  * Weights and biases\n" +
	"  * Activation functions\n" +
	"  * Layers (input, hidden, output)\n" +
	"* **How ANNs Work**\n" +
	"  * Forward propagation\n" +
	"  * Backpropagation\n" +
	"  * Gradient descent\n" +
	"  * Optimization algorithms\n" +
	"* **Training ANNs**\n" +
	"  * Supervised, unsupervised, and reinforcement learning\n" +
	"  * Data preprocessing and preparation\n" +
	"  * Overfitting and regularization techniques\n" +
	"  * Model evaluation metrics\n" +
	"* **Applications of ANNs**\n" +
	"  * Image and speech recognition\n" +
	"  * Natural language processing\n" +
	"  * Game playing and decision making\n" +
	"  * Other applications (e.g. recommender systems, autonomous vehicles)\n\n" +
	"[END EXAMPLE]\n\n" +
	"Generate the response in markdown format using bullet points."

const questionSystem = "You are an AI that generates quiz questions based on provided content, outline, and user history. " +
	"Your task is to create a question that is relevant to the given topic, subject, and level.\n" +
	"If the user has answered similar questions in the past, try to generate a new question. " +
	"If the user answered the previous question incorrectly, generate a question one level easier and lower to test the understanding. " +
	"If the user answered the previous question correctly, generate a question one level harder and higher to challenge the knowledge.\n" +
	"Ensure the question is clear, concise, and appropriately challenging. " +
	"Do not include any extraneous information or examples.\n\n" +
	"[BEGIN EXAMPLE 1]\n" +
	"{\n" +
	"  question: 'What is the primary function of the dendrites in a neuron?',\n" +
	"  description: 'This question tests the understanding of the basic structure and function of neurons.',\n" +
	"  difficulty: 'easy'\n" +
	"}\n" +
	"[END EXAMPLE 1]\n\n" +
	"[BEGIN EXAMPLE 2]\n" +
	"{\n" +
	"  question: 'Explain the process of backpropagation in training neural networks.',\n" +
	"  description: 'This question assesses the knowledge of the backpropagation algorithm used in neural network training.',\n" +
	"  difficulty: 'medium'\n" +
	"}\n" +
	"[END EXAMPLE 2]"

const validateSystem = "You are an AI that validates quiz answers based on provided content and questions. " +
	"Your task is to determine if the user's answer is correct, generate the correct answer, " +
	"and provide feedback. Ensure the feedback is clear and concise.\n\n" +
	"[BEGIN EXAMPLES]\n\n" +
	"Example 1:\n" +
	"{\n" +
	"  userAnswer: 'Dendrites receive electrical signals from other neurons.',\n" +
	"  correctAnswer: 'Dendrites receive electrical signals from other neurons.',\n" +
	"  isCorrect: true,\n" +
	"  feedback: 'Correct! Dendrites are responsible for receiving signals from other neurons.'\n" +
	"}\n\n" +
	"Example 2:\n" +
	"{\n" +
	"  userAnswer: 'Backpropagation is a type of neural network.',\n" +
	"  correctAnswer: 'Backpropagation is an algorithm used for training neural networks.',\n" +
	"  isCorrect: false,\n" +
	"  feedback: 'Incorrect. Backpropagation is an algorithm used for training neural networks.'\n" +
	"}\n\n" +
	"[END EXAMPLES]"

const completionSystem = "You are an AI that checks if a quiz is complete based on the provided history. " +
	"Your task is to determine if the quiz has covered all necessary topics and is complete. " +
	"Do not include any extraneous information or examples.\n\n" +
	"Return `true` if the quiz is complete based on the length and user's progress, otherwise return `false`."

// ContentSummary asks for a bullet list of the main topics
func ContentSummary(info model.QuizInfo) Prompt {
	var b strings.Builder
	b.WriteString("Generate a clear and concise content summary for the given quizInfo.\n")
	writeInfo(&b, info)
	b.WriteString("Generate the response in markdown format using bullet points without any extra information.")
	return Prompt{System: contentSummarySystem, User: b.String()}
}

// Outline asks for a detailed outline built from the summary
func Outline(info model.QuizInfo, summary string) Prompt {
	var b strings.Builder
	b.WriteString("Generate a detailed quiz outline for the given topic, subject, and level based on the provided content summary.\n")
	writeInfo(&b, info)
	fmt.Fprintf(&b, "Length: %s\n\n", length(info))
	fmt.Fprintf(&b, "Content Summary:\n%s\n\n", summary)
	b.WriteString("Generate the response in markdown format using bullet points without any extra information.")
	return Prompt{System: outlineSystem, User: b.String()}
}

// NextQuestion asks for the next question. Only the question of each history
// entry is rendered.
func NextQuestion(info model.QuizInfo, content, outline string, history []model.QuizQuestionAnswer) Prompt {
	var b strings.Builder
	b.WriteString("Generate the next question based on the quiz outline and history.\n")
	writeInfo(&b, info)
	fmt.Fprintf(&b, "Length: %s %s\n\n", length(info), LengthHint)
	fmt.Fprintf(&b, "Quiz Content:\n%s\n\n", content)
	fmt.Fprintf(&b, "Quiz Outline:\n%s\n\n", outline)
	fmt.Fprintf(&b, "Quiz History:\n%s\n\n", FormatHistory(history, FieldQuestion))
	return Prompt{System: questionSystem, User: b.String()}
}

// ValidateAnswer asks the model to grade answer against question
func ValidateAnswer(info model.QuizInfo, content string, question model.QuizQuestion, answer string) Prompt {
	var b strings.Builder
	b.WriteString("Validate if the given answer is correct for the given question.\n")
	b.WriteString("Generate the correct answer and provide feedback if it is correct or not.\n")
	writeInfo(&b, info)
	fmt.Fprintf(&b, "Quiz Content:\n%s\n\n", content)
	fmt.Fprintf(&b, "Question:\n%s\n\n", question.Question)
	fmt.Fprintf(&b, "Answer:\n%s\n\n", answer)
	return Prompt{System: validateSystem, User: b.String()}
}

// CheckCompletion asks whether the quiz has covered enough ground
func CheckCompletion(info model.QuizInfo, summary string, history []model.QuizQuestionAnswer) Prompt {
	var b strings.Builder
	b.WriteString("Check if the quiz is complete based on the provided history.\n")
	writeInfo(&b, info)
	fmt.Fprintf(&b, "Length: %s %s\n\n", length(info), LengthHint)
	fmt.Fprintf(&b, "Quiz Content Summary:\n%s\n\n", summary)
	fmt.Fprintf(&b, "Quiz History:\n%s\n\n", FormatHistory(history, FieldQuestion, FieldAnswer))
	return Prompt{System: completionSystem, User: b.String()}
}

func writeInfo(b *strings.Builder, info model.QuizInfo) {
	fmt.Fprintf(b, "Topic: %s\n", info.Topic)
	fmt.Fprintf(b, "Subject: %s\n", info.Subject)
	fmt.Fprintf(b, "Level: %s\n", info.Level)
}

func length(info model.QuizInfo) string {
	if info.Length == "" {
		return "N/A"
	}
	return info.Length
}
