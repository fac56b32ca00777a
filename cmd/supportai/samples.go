package main

import "github.com/ishaandev07/WebDevDynamics/internal/models"

// builtinSamples seeds the corpus when no external dataset is configured, so a
// fresh install can answer something before any upload.
var builtinSamples = []models.RecordInput{
	{
		Query:    "I can't log into my account",
		Response: "Try resetting your password using the 'Forgot Password' link on the login page. If the problem persists, clear your browser cache and cookies, then try again.",
	},
	{
		Query:    "How do I reset my password?",
		Response: "Click 'Forgot Password' on the login page and enter your registered email address. You'll receive a reset link within a few minutes. Check your spam folder if you don't see it.",
	},
	{
		Query:    "My payment was declined",
		Response: "Please verify your card details and billing address are correct. If everything looks right, contact your bank to make sure the transaction isn't being blocked on their side.",
	},
	{
		Query:    "I want a refund for my last order",
		Response: "We're happy to help with refunds within 30 days of purchase. Refunds are processed back to the original payment method and typically post within 5 business days.",
	},
	{
		Query:    "How do I cancel my subscription?",
		Response: "Go to Account Settings > Subscription and click 'Cancel Subscription'. Your access continues until the end of the current billing period and you won't be charged again.",
	},
	{
		Query:    "How do I upgrade my plan?",
		Response: "Open Account Settings > Subscription and choose 'Upgrade'. The price difference is prorated for the remainder of your billing cycle and the new features unlock immediately.",
	},
	{
		Query:    "Where is my order?",
		Response: "You can track your order from the Orders page in your account. Click the order number to see the latest tracking status. Most orders ship within 2 business days.",
	},
	{
		Query:    "My order arrived damaged",
		Response: "We're sorry about that. Please reply with a photo of the damaged item and your order number, and we'll send a replacement or issue a full refund right away.",
	},
	{
		Query:    "How do I update my billing information?",
		Response: "Go to Account Settings > Billing to update your card details or billing address. Changes take effect on your next invoice.",
	},
	{
		Query:    "The app keeps crashing",
		Response: "Please update to the latest version and restart your device. If the crashes continue, send us the device model and app version so we can investigate.",
	},
	{
		Query:    "How do I change my email address?",
		Response: "Open Account Settings > Profile and edit your email address. We'll send a confirmation link to the new address; the change completes once you click it.",
	},
	{
		Query:    "Do you offer a free trial?",
		Response: "Yes, every new account starts with a 14-day free trial of the full feature set. No credit card is required and you can cancel at any time during the trial.",
	},
}
