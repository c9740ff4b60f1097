package handlers

import (
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type UploadResponse struct {
	Message            string `json:"message"`
	ResumeText         string `json:"resumeText"`
	JobDescriptionText string `json:"jobDescriptionText"`
}

// UploadHandler accepts plain-text resume and job description files and
// returns their extracted text. Binary document formats are out of scope; the
// caller is expected to upload text.
type UploadHandler struct {
	maxUploadBytes int64
}

func NewUploadHandler(maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{maxUploadBytes: maxUploadBytes}
}

func (h *UploadHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/upload", h.Upload).Methods("POST")
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received upload request")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		log.Printf("[ERROR] Failed to parse multipart upload: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid or too large multipart payload")
		return
	}

	resumeText, err := h.readTextFile(r, "resume")
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Failed to read resume file")
		return
	}

	jobDescriptionText, err := h.readTextFile(r, "jobDescription")
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Failed to read job description file")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, UploadResponse{
		Message:            "Files processed.",
		ResumeText:         resumeText,
		JobDescriptionText: jobDescriptionText,
	})
}

// readTextFile returns the file's content with NUL bytes stripped, or an empty
// string when the field is absent. Missing files are not an error here; the
// start endpoint enforces which texts are required.
func (h *UploadHandler) readTextFile(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			log.Printf("[INFO] No %s file uploaded", field)
			return "", nil
		}
		log.Printf("[ERROR] Failed to open %s file: %v", field, err)
		return "", err
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	content, err := io.ReadAll(file)
	if err != nil {
		log.Printf("[ERROR] Failed to read %s file %s: %v", field, header.Filename, err)
		return "", err
	}

	log.Printf("[INFO] Extracted %d characters from %s file %s", len(content), field, header.Filename)
	return strings.ReplaceAll(string(content), "\x00", ""), nil
}

func (h *UploadHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *UploadHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
