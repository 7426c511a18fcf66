package descriptions

// Tool descriptions with practical examples and use cases

const (
	ExtractQuestionsDescription = `Extract the multiple-choice questions of a PDF exam dump as a JSON document.

**When to use:** Need the questions, options A-D, correct answers, explanations and references of an exam PDF in a structured form.

**Why it's useful:** Splits the document on "QUESTION NO: <n>" markers, recovers each field and labels every question as text-based or image-based, so questions that depend on a missing picture can be told apart.

**Examples:**
• Build a quiz: "Extract all questions from security-plus.pdf and turn them into flash cards"
• Review only self-contained questions: "Extract the text questions from network-exam.pdf"
• Find questions needing a diagram: "Extract the image questions from ccna-dump.pdf"

**Common workflows:**
1. Study Material: question_summary → extract_questions (filter=text) → Generate practice sets
2. Scanned Dumps: extract_questions returns nothing → retry with use_ocr=true
3. Quality Check: extract_questions → Inspect records with an empty correct_answer

**Best practices:** Run question_summary first on large files, use filter to keep responses small, and only enable use_ocr when server_info reports OCR as available.`

	QuestionSummaryDescription = `Count the questions of a PDF exam dump by type without returning them.

**When to use:** Need to know how many questions a PDF holds, or how many of them are image-based, before extracting.

**Why it's useful:** Cheap way to check that a document uses the expected question markers and whether OCR is worth running.

**Examples:**
• Sanity check: "How many questions are in aws-practitioner.pdf?"
• Compare dumps: "Summarize exam-v1.pdf and exam-v2.pdf"

**Common workflows:**
1. Triage: list_pdfs → question_summary per file → extract_questions on the useful ones
2. OCR Decision: question_summary → Many image-based questions → Retry with use_ocr=true

**Best practices:** Blocks that could not be parsed are reported as skipped, a high count means the document layout differs from the expected format.`

	ListPDFsDescription = `List the PDF files below the server directory.

**When to use:** Need to find exam dumps before extracting them, or the exact path to pass to the other tools.

**Why it's useful:** Walks subdirectories, skips hidden folders and files over the size limit, and never leaves the configured directory.

**Examples:**
• Find everything: "List all PDFs in the exam directory"
• Narrow down: "List PDFs matching *security*.pdf in dumps/2024"

**Common workflows:**
1. Discovery: list_pdfs → Pick a file → question_summary → extract_questions

**Best practices:** Paths in the result can be passed to extract_questions and question_summary unchanged.`

	ServerInfoDescription = `Get server information, supported output formats and OCR availability.

**When to use:** Before using use_ocr, or to see which directory the server can read.

**Why it's useful:** Reports whether pdftoppm and tesseract were found, the file size limit and the available tools.

**Common workflows:**
1. Setup Check: server_info → Confirm OCR → extract_questions with use_ocr=true`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"extract_questions": ExtractQuestionsDescription,
	"question_summary":  QuestionSummaryDescription,
	"list_pdfs":         ListPDFsDescription,
	"server_info":       ServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
