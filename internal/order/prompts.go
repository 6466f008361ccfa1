package order

import "fmt"

const (
	// MsgStart greets the customer and asks for the product.
	MsgStart = "Sure! 😊 Let's proceed with placing your order.\nWhat product would you like to order?"
	// MsgInvalidProduct re-prompts when the catalog has no match.
	MsgInvalidProduct = "I couldn't find that product. Please enter a valid product name."
	// MsgAskName asks for the customer's full name.
	MsgAskName = "Great choice! May I have your full name, please?"
	// MsgAskPhone asks for a contact phone number.
	MsgAskPhone = "Thanks. What's the best phone number to contact you about your order?"
	// MsgInvalidPhone re-prompts when the phone number fails validation.
	MsgInvalidPhone = "That doesn't look like a valid phone number. Please enter an 11-digit number."
	// MsgAskEmail asks for a confirmation email address.
	MsgAskEmail = "Which email address should we use for your order confirmation?"
	// MsgAskReview instructs the customer how to reach the review step.
	MsgAskReview = `Perfect! To review and confirm your order, please type "review order".`
	// MsgReviewOptions re-prompts at the review gate on unrecognized input.
	MsgReviewOptions = "Please reply with Review order to review and confirm your order or No to cancel."
	// MsgConfirmOptions re-prompts at the final gate on unrecognized input.
	MsgConfirmOptions = "Please reply with Yes to confirm or No to cancel."
	// MsgCancelled acknowledges an order cancellation.
	MsgCancelled = "Order cancelled. Let me know if you need anything else."
	// MsgSuccess confirms a persisted order.
	MsgSuccess = "Your order has been placed successfully! We'll contact you soon."
	// MsgStoreFailure reports a failed persistence attempt; the session stays at
	// the confirm stage so the customer can retry.
	MsgStoreFailure = "Sorry, I couldn't save your order just now. Please reply Yes to try again or No to cancel."
)

// reviewSummary renders the collected fields for the confirm stage.
func reviewSummary(data Data) string {
	return fmt.Sprintf(
		"Almost done! Here's a quick review of your order:\n"+
			"🛍 Product: %s\n"+
			"👤 Name: %s\n"+
			"📞 Phone: %s\n"+
			"📧 Email: %s\n\n"+
			"Please reply Yes to confirm your order or No if you'd like to cancel.",
		data.Product, data.Name, data.Phone, data.Email,
	)
}
