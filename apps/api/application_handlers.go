package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dogmail/libs/mailer"

	"github.com/gin-gonic/gin"
)

const applicationPDFFilename = "adoption-application.pdf"

func (a *App) dogApplicationHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionBytes)

	submission, err := decodeSubmission(c.Request)
	if err != nil {
		applicationsReceived.WithLabelValues("invalid").Inc()
		writeAPIError(c, err)
		return
	}
	applicationsReceived.WithLabelValues("accepted").Inc()

	if missing := submission.Missing(requiredApplicationFields...); len(missing) > 0 {
		a.log.Warn("application is missing fields",
			"missing", missing,
			"request_id", c.GetString("requestID"),
		)
	}

	msg := a.buildApplicationEmail(submission)

	// Delivery is not tied to the client connection: a browser that navigates
	// away must not cancel an in-flight send.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), a.cfg.DeliveryTimeout)
	defer cancel()

	provider := a.mailer.ProviderName()
	start := time.Now()
	result, err := a.mailer.Send(ctx, msg)
	deliveryDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		var failure *mailer.DeliveryFailure
		if !errors.As(err, &failure) {
			failure = &mailer.DeliveryFailure{Message: err.Error(), Err: err}
		}
		deliveries.WithLabelValues(provider, "failure").Inc()
		a.log.Error("application delivery failed",
			"provider", provider,
			"status", failure.Status(),
			"err", failure.Message,
			"request_id", c.GetString("requestID"),
		)
		c.JSON(failure.Status(), gin.H{"error": failure.Message})
		return
	}

	deliveries.WithLabelValues(provider, "success").Inc()
	a.log.Info("application delivered",
		"provider", provider,
		"message_id", result.ProviderMessageID,
		"subject", msg.Subject,
		"request_id", c.GetString("requestID"),
	)
	c.JSON(http.StatusOK, result)
}

func (a *App) buildApplicationEmail(sub Submission) mailer.Message {
	msg := mailer.Message{
		To:      []string{a.cfg.ApplicationToAddress},
		ReplyTo: sub.Value(applicantEmailField),
		Subject: applicationSubject(sub),
		HTML:    formatApplicationHTML(sub),
		Text:    formatApplicationText(sub),
	}

	if a.cfg.AttachApplicationPDF {
		pdf, err := a.renderApplicationPDF(sub)
		if err != nil {
			a.log.Warn("failed to render application pdf, sending without attachment", "err", err)
			return msg
		}
		msg.Attachments = append(msg.Attachments, mailer.Attachment{
			Filename:    applicationPDFFilename,
			ContentType: "application/pdf",
			Content:     pdf,
		})
	}
	return msg
}
