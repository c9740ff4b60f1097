package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"interviewer/db"
	"interviewer/services/interview"

	"github.com/gorilla/mux"
)

type StartInterviewRequest struct {
	ResumeText         string `json:"resumeText"`
	JobDescriptionText string `json:"jobDescriptionText"`
	UserID             string `json:"userId,omitempty"`
}

type StartInterviewResponse struct {
	InterviewID   string `json:"interviewId"`
	FirstQuestion string `json:"firstQuestion"`
}

type ChatRequest struct {
	InterviewID string `json:"interviewId"`
	UserAnswer  string `json:"userAnswer"`
	UserID      string `json:"userId,omitempty"`
}

type ChatResponse struct {
	InterviewID        string `json:"interviewId"`
	NextQuestion       string `json:"nextQuestion"`
	ShouldEndInterview bool   `json:"shouldEndInterview"`
}

type EndInterviewRequest struct {
	InterviewID string `json:"interviewId"`
	UserID      string `json:"userId,omitempty"`
}

type EndInterviewResponse struct {
	InterviewID string `json:"interviewId"`
}

type FeedbackResponse struct {
	InterviewID string `json:"interviewId"`
	Feedback    string `json:"feedback"`
}

type InterviewHandler struct {
	service *interview.Service
}

func NewInterviewHandler(service *interview.Service) *InterviewHandler {
	return &InterviewHandler{service: service}
}

func (h *InterviewHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/interview/start", h.StartInterview).Methods("POST")
	router.HandleFunc("/api/interview/chat", h.Chat).Methods("POST")
	router.HandleFunc("/api/interview/end", h.EndInterview).Methods("POST")
	router.HandleFunc("/api/interview/feedback/{interviewId}", h.GetFeedback).Methods("GET")
}

func (h *InterviewHandler) StartInterview(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received start interview request")

	var req StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode start request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.ResumeText == "" || req.JobDescriptionText == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Resume text and job description text are required")
		return
	}

	result, err := h.service.StartInterview(r.Context(), req.UserID, req.ResumeText, req.JobDescriptionText)
	if err != nil {
		h.writeServiceError(w, err, "Failed to start interview")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, StartInterviewResponse{
		InterviewID:   result.InterviewID,
		FirstQuestion: result.FirstQuestion,
	})
}

func (h *InterviewHandler) Chat(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received interview chat request")

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode chat request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.InterviewID == "" || req.UserAnswer == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Interview ID and user answer are required")
		return
	}

	result, err := h.service.SubmitAnswer(r.Context(), req.UserID, req.InterviewID, req.UserAnswer)
	if err != nil {
		h.writeServiceError(w, err, "Failed to process chat message")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, ChatResponse{
		InterviewID:        req.InterviewID,
		NextQuestion:       result.NextQuestion,
		ShouldEndInterview: result.ShouldEnd,
	})
}

func (h *InterviewHandler) EndInterview(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received end interview request")

	var req EndInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode end request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.InterviewID == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Interview ID is required")
		return
	}

	if err := h.service.EndInterview(r.Context(), req.UserID, req.InterviewID); err != nil {
		h.writeServiceError(w, err, "Failed to end interview")
		return
	}

	// Feedback is deliberately not returned inline; it is read through the
	// dedicated feedback endpoint.
	h.writeJSONResponse(w, http.StatusOK, EndInterviewResponse{InterviewID: req.InterviewID})
}

func (h *InterviewHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	interviewID := mux.Vars(r)["interviewId"]
	log.Printf("[INFO] Received feedback request for interview %s", interviewID)

	feedback, err := h.service.GetFeedback(r.Context(), interviewID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to fetch feedback")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, FeedbackResponse{
		InterviewID: interviewID,
		Feedback:    feedback,
	})
}

func (h *InterviewHandler) writeServiceError(w http.ResponseWriter, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, interview.ErrInvalidInput):
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrInterviewNotFound):
		h.writeErrorResponse(w, http.StatusNotFound, "Interview session not found")
	case errors.Is(err, interview.ErrFeedbackNotReady):
		h.writeErrorResponse(w, http.StatusNotFound, "Feedback not yet available for this interview")
	case errors.Is(err, interview.ErrAlreadyCompleted):
		h.writeErrorResponse(w, http.StatusConflict, "Interview has already been completed")
	default:
		log.Printf("[ERROR] %s: %v", fallbackMessage, err)
		h.writeErrorResponse(w, http.StatusInternalServerError, fallbackMessage)
	}
}

func (h *InterviewHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *InterviewHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
