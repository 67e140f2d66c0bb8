package utils

import (
	"fmt"
	"log"

	"lms/config"
	"lms/database"
	courseModels "lms/models/course"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEnrollmentConfirmation emails the user after a verified payment.
// Best effort only: enrollment has already been granted, so failures are
// logged and dropped.
func SendEnrollmentConfirmation(toEmail, name string, courseID uint) {
	if config.AppConfig.SendgridAPIKey == "" {
		log.Println("[EMAIL] SENDGRID_API_KEY not set, skipping enrollment confirmation")
		return
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err != nil {
		log.Printf("[EMAIL] course %d not found for confirmation mail: %v", courseID, err)
		return
	}

	from := mail.NewEmail("LMS", config.AppConfig.EmailSender)
	to := mail.NewEmail(name, toEmail)
	subject := "You're enrolled: " + course.Title

	plain := fmt.Sprintf("Hi %s,\n\nYour payment was verified and you now have full access to %q by %s.\n\nHappy learning!", name, course.Title, course.Author)
	html := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2>Hi %s,</h2>
					<p>Your payment was verified and you now have full access to <b>%s</b> by %s.</p>
					<p>Happy learning!</p>
				</div>
			</body>
		</html>`, name, course.Title, course.Author)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(config.AppConfig.SendgridAPIKey)

	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] failed to send enrollment confirmation to %s: %v", toEmail, err)
		return
	}
	if resp.StatusCode >= 300 {
		log.Printf("[EMAIL] sendgrid rejected enrollment confirmation to %s: %d %s", toEmail, resp.StatusCode, resp.Body)
	}
}
