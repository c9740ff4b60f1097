package interview

import (
	"fmt"

	"interviewer/models"

	"github.com/samber/lo"
)

const openingQuestionPromptTemplate = `You are an AI interviewer. Your task is to formulate an engaging opening interview question.

Use the **Job Description Summary** below to understand the requirements and skills needed for the role.
Use the **Resume Summary** below to understand the candidate's experience.

Based on BOTH, ask an initial question that either:
a) Asks the candidate to elaborate on a specific experience from their **Resume Summary** that seems relevant to a key requirement in the **Job Description Summary**.
OR
b) Poses a general question about their interest or suitability for the role, referencing a key aspect of the **Job Description Summary**.

Do NOT assume the Job Description is the candidate's experience.

Job Description Summary:
%s

Resume Summary:
%s

Opening Question:`

const followUpSystemPrompt = `You are an AI interviewer. You have already been provided with the candidate's resume and the job description for the role. Continue the interview based on the conversation history. Focus on asking follow-up questions based on the candidate's answers, relating them back to their experience (from the resume) and the job requirements (from the job description) where appropriate. Do not repeat questions. Evaluate the user's response and compare it with the job description and assess the candidate's suitability for the role as you go.

IMPORTANT: After asking a sufficient number of questions (e.g., 5-7 substantive questions, or if you feel you have a strong assessment), you can choose to conclude the interview. To do this, begin your final response with the exact phrase ` + EndMarker + ` followed by your concluding remarks or a final neutral statement. Do not ask another question if you are ending the interview.`

const feedbackSystemPromptTemplate = `You are an expert interviewer and talent acquisition specialist.
Based on the provided Resume Summary, Job Description Summary, and the full Interview Transcript, provide comprehensive feedback for the candidate.

Your feedback should include:
1. A brief summary of the candidate's performance during the interview.
2. Strengths demonstrated by the candidate relevant to the job description summary.
3. Areas for improvement or aspects where the candidate could have been more convincing.
4. An overall assessment of the candidate's suitability for the role described in the Job Description Summary. Clearly state whether you consider the candidate a strong fit, a potential fit (mentioning any gaps), or not a good fit at this time, and provide a concise justification for your assessment.

Resume Summary: %s
Job Description Summary: %s

Interview Transcript is provided next. Focus your feedback on the transcript content in light of the resume and JD summaries.`

func openingQuestionMessages(resumeSummary, jdSummary string) []models.Message {
	return []models.Message{
		{
			Role:    models.RoleUser,
			Content: fmt.Sprintf(openingQuestionPromptTemplate, jdSummary, resumeSummary),
		},
	}
}

// followUpMessages replays the whole transcript after the standing system
// instruction. The stored transcript is the single source of conversational
// context; nothing incremental is kept between turns.
func followUpMessages(transcript []models.Turn) []models.Message {
	messages := []models.Message{
		{Role: models.RoleSystem, Content: followUpSystemPrompt},
	}
	return append(messages, transcriptMessages(transcript)...)
}

func feedbackMessages(resumeSummary, jdSummary string, transcript []models.Turn) []models.Message {
	messages := []models.Message{
		{
			Role:    models.RoleSystem,
			Content: fmt.Sprintf(feedbackSystemPromptTemplate, resumeSummary, jdSummary),
		},
	}
	return append(messages, transcriptMessages(transcript)...)
}

// transcriptMessages projects the append-only transcript onto the
// assistant/user roles the completion backends expect.
func transcriptMessages(transcript []models.Turn) []models.Message {
	return lo.Map(transcript, func(turn models.Turn, _ int) models.Message {
		role := models.RoleUser
		if turn.Sender == models.SenderAI {
			role = models.RoleAssistant
		}
		return models.Message{Role: role, Content: turn.Text}
	})
}
