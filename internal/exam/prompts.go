package exam

// TeacherPrompt asks the vision model for the structure of an exam paper.
const TeacherPrompt = `Analyze this exam paper and extract the following information in a structured format:
1. Title of the exam (if any)
2. Subject (if any)
3. Year (if any)
4. Course code (if any)
5. Instructions (if any)
6. Duration (in minutes)
7. Questions with:
   - Question text
   - Type (MCQ/Essay)
   - Points (default 1 if not specified)
   - Correct answer(s)
   - Options (for MCQ)

Format as JSON:
{
    "title": "Untitled Exam",
    "courseCode": "NONE",
    "subject": "NONE",
    "year": "NONE",
    "semester": "NONE",
    "instructions": "",
    "duration": 60,
    "questions": [
        {
            "text": "",
            "type": "",
            "points": 1,
            "modelAnswer": "",
            "options": [
                {"text": "", "isCorrect": false}
            ]
        }
    ]
}
Ensure all field names exactly match the format above.`

// StudentPrompt asks the vision model for the answers on an answer sheet.
const StudentPrompt = `Extract student answers from this answer sheet.
List answers in order, one per line.
If a question is not answered, mark it as 'NA'.
Format as JSON:
{
    "answers": [
        {
            "answer": "text of selected answer or written response in lowercase, or NA if not answered"
        }
    ]
}
Keep all text lowercase.
Ensure every question has an answer entry, even if it's NA.`
