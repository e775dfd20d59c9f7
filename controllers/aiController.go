package controllers

import (
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"

	"github.com/krishisathi/agrisetu-api/initializers"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent"

// Canned replies keep the advisory chat usable without an API key.
var demoAnswers = []string{
	"Integrating organic fertilizers like Neem Cake can improve soil aeration and reduce pest attacks effectively.",
	"For rabi crops, ensuring the first irrigation occurs exactly 21 days after sowing (CRI stage) is critical for yield.",
	"Maintaining a soil pH between 6.0 and 7.5 is ideal for most agricultural crops.",
	"Rotating leguminous crops like Moong with cereals helps in natural nitrogen fixation of the soil.",
	"Always check the weather forecast before applying pesticides to avoid wash-off.",
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ChatWithAI proxies a farmer's question to the generative-AI API with a
// fixed agronomy prompt, falling back to canned demo answers when no key is
// configured.
func ChatWithAI(ctx *gin.Context) {
	var body struct {
		Message string `json:"message" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Message is required")
		return
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		initializers.Log.Warn("GEMINI_API_KEY missing, AI chat running in demo mode")
		reply := demoAnswers[rand.Intn(len(demoAnswers))]
		sendJSONResponse(ctx, http.StatusOK, gin.H{
			"reply":  "[Demo Mode] " + reply,
			"isDemo": true,
		})
		return
	}

	prompt := fmt.Sprintf(
		"You are an agricultural assistant for Indian farmers. Answer the following question in a simple, practical, and helpful way: %s",
		body.Message,
	)

	var result geminiResponse
	resp, err := resty.New().SetTimeout(30*time.Second).R().
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", apiKey).
		SetBody(map[string]any{
			"contents": []map[string]any{
				{"parts": []map[string]string{{"text": prompt}}},
			},
		}).
		SetResult(&result).
		Post(geminiEndpoint)
	if err != nil {
		initializers.Log.Errorw("AI chat request failed", "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "The AI assistant is currently busy. Please try later.")
		return
	}
	if resp.StatusCode() != 200 {
		initializers.Log.Errorw("AI chat request failed", "status", resp.StatusCode(), "body", string(resp.Body()))
		sendErrorResponse(ctx, http.StatusInternalServerError, "The AI assistant is currently busy. Please try later.")
		return
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		sendErrorResponse(ctx, http.StatusInternalServerError, "The AI assistant returned an empty answer.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"reply": result.Candidates[0].Content.Parts[0].Text})
}
