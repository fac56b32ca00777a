// Package e2e provides end-to-end tests with a realistic support corpus and
// query test cases for both retrieval strategies.
package e2e

import (
	"fmt"
	"strings"

	"github.com/ishaandev07/WebDevDynamics/internal/corpus"
	"github.com/ishaandev07/WebDevDynamics/internal/models"
)

// QueryTestCase defines a customer query and the corpus record(s) that must
// appear in the retrieval results. At least one of ExpectedQueries must be
// present among the returned matches.
type QueryTestCase struct {
	Query           string
	ExpectedQueries []string
	Description     string
}

// Corpus holds support query/response pairs and query test cases for E2E tests.
type Corpus struct {
	Pairs        []models.RecordInput
	TestCases    []QueryTestCase
	TotalPairs   int
	TotalQueries int
}

// BuildCorpus returns a corpus of support pairs with varied vocabulary and
// query test cases. Each pair carries distinctive terms so queries can assert
// the correct record is retrieved.
func BuildCorpus() *Corpus {
	pairs := buildPairs()
	cases := buildQueryTestCases(pairs)
	return &Corpus{
		Pairs:        pairs,
		TestCases:    cases,
		TotalPairs:   len(pairs),
		TotalQueries: len(cases),
	}
}

func buildPairs() []models.RecordInput {
	return []models.RecordInput{
		{Query: "I cannot log into my account", Response: "Please use the Forgot Password link on the sign-in page to regain access. If the problem persists, clear your browser cookies and try again."},
		{Query: "How do I reset my password", Response: "Click Forgot Password on the sign-in page and follow the emailed instructions. Reset links are valid for 24 hours."},
		{Query: "My payment card was declined during checkout", Response: "Card declines usually come from the issuing bank. Verify the card number and expiry date, or try a different payment method."},
		{Query: "I want a refund for my last order", Response: "We offer full refunds within 30 days of purchase. Share your order number and our billing team will process it within 5 business days."},
		{Query: "How do I cancel my subscription", Response: "Go to Settings, then Subscription, then Cancel Plan. Your access continues until the end of the current billing period."},
		{Query: "How do I upgrade my subscription plan", Response: "Open Settings, then Subscription, then Change Plan and pick the tier you want. Upgrades are prorated immediately."},
		{Query: "Where is my order I have not received it", Response: "Track your shipment from the Orders page using the tracking number in your confirmation email. Most deliveries arrive within 5 to 7 business days."},
		{Query: "My order arrived damaged", Response: "We're sorry about that. Send a photo of the damaged item to our returns team and we'll ship a replacement at no cost."},
		{Query: "How do I update my billing information", Response: "Open Settings, then Billing, then Payment Methods to edit your card details. Changes apply to the next invoice."},
		{Query: "The mobile app keeps crashing on startup", Response: "Update to the latest app version, then clear the app cache from your device settings. If crashes continue, reinstall the app."},
		{Query: "How do I change my email address", Response: "Go to Settings, then Profile, and edit the email field. We'll send a confirmation link to the new address."},
		{Query: "Do you offer a free trial", Response: "Yes, every new workspace gets a 14-day free trial with all features enabled. No credit card is required to start."},
		{Query: "I was charged twice for the same invoice", Response: "Duplicate charges are usually a pending authorization that drops off within 3 days. If both charges settle, reply with the invoice number for an immediate reversal."},
		{Query: "How do I download my invoice history", Response: "Open Settings, then Billing, then Invoices. Each invoice has a PDF download button."},
		{Query: "How do I add a team member to my workspace", Response: "Workspace admins can invite people from Settings, then Members, then Invite. Invitees get an email with a join link."},
		{Query: "I forgot my username", Response: "Your username is the email address you registered with. Check for our welcome email if you're unsure which address you used."},
		{Query: "How do I enable two factor authentication", Response: "Go to Settings, then Security, then Two-Factor Authentication and scan the QR code with an authenticator app."},
		{Query: "I lost my two factor authentication device", Response: "Use one of the backup codes you saved during setup. If you have no backup codes, contact support with proof of identity to disable 2FA."},
		{Query: "The website is loading very slowly", Response: "Check our status page for ongoing incidents. If the status is green, try a different network or disable browser extensions that intercept traffic."},
		{Query: "I am getting a server error five hundred", Response: "A 500 error means something failed on our side. It's usually transient; retry in a few minutes and contact support with the request ID if it persists."},
		{Query: "How do I export my data", Response: "Go to Settings, then Data, then Export. We'll generate a ZIP archive and email you a download link within an hour."},
		{Query: "How do I delete my account permanently", Response: "Open Settings, then Account, then Delete Account. Deletion is permanent and removes all your data after a 14-day grace period."},
		{Query: "How do I contact a human agent", Response: "You can reach our support team via the Help menu, by email at support@example.com, or through live chat during business hours."},
		{Query: "My promo code is not working", Response: "Promo codes are case sensitive and most expire 30 days after issue. Check the expiry date and make sure the code applies to the plan in your cart."},
		{Query: "What payment methods do you accept", Response: "We accept all major credit and debit cards, PayPal, and bank transfer for annual plans."},
		{Query: "How do I change my shipping address", Response: "Open the order from the Orders page and choose Edit Shipping Address. Address changes are possible until the order ships."},
		{Query: "Can I pause my subscription instead of cancelling", Response: "Yes, you can pause for up to 3 months from Settings, then Subscription, then Pause. Your data is kept while paused."},
		{Query: "The email verification link has expired", Response: "Verification links expire after 48 hours. Request a new one from the sign-in page with the Resend Verification button."},
		{Query: "I did not receive the confirmation email", Response: "Check your spam folder first. If it's not there, add noreply@example.com to your contacts and request the email again."},
		{Query: "How do I connect the Slack integration", Response: "Go to Settings, then Integrations, then Slack and authorize the workspace. Notifications start flowing within a minute."},
		{Query: "The API key I generated stopped working", Response: "API keys are revoked when regenerated. Create a new key under Settings, then Developers, and update every client that used the old one."},
		{Query: "How do I increase my API rate limit", Response: "Rate limits scale with your plan tier. Upgrade the plan or contact sales for a custom limit on enterprise agreements."},
		{Query: "My file upload keeps failing", Response: "Uploads are limited to 32 MB per file. Compress larger files or split them, and make sure your connection isn't dropping mid-transfer."},
		{Query: "How do I restore a deleted project", Response: "Deleted projects stay in the Trash for 30 days. Open Trash from the project list and choose Restore."},
		{Query: "The invoice shows the wrong company name", Response: "Update the company name under Settings, then Billing, then Billing Details. We can reissue past invoices on request."},
		{Query: "How do I switch from monthly to annual billing", Response: "Open Settings, then Subscription, then Billing Cycle and choose Annual. The unused portion of the month is credited."},
		{Query: "The dark mode setting does not save", Response: "Theme preferences are stored per browser. Allow cookies for our site, or set the theme in Settings, then Appearance to sync it to your account."},
		{Query: "How do I report a security vulnerability", Response: "Email security@example.com with reproduction steps. We run a responsible disclosure program and respond within 48 hours."},
	}
}

func buildQueryTestCases(pairs []models.RecordInput) []QueryTestCase {
	if len(pairs) == 0 {
		return nil
	}
	// Each probe is a token subset of exactly one (occasionally two) corpus
	// queries, so lexical overlap alone must surface the right record.
	probes := []string{
		"reset password",
		"card declined checkout",
		"refund order",
		"cancel subscription",
		"order damaged",
		"app crashing",
		"two factor authentication",
		"free trial",
		"charged twice invoice",
		"export data",
		"delete account",
		"promo code",
		"shipping address",
		"verification link expired",
		"slack integration",
		"rate limit",
		"upload failing",
		"restore deleted project",
		"annual billing",
		"dark mode",
	}
	var cases []QueryTestCase
	for _, p := range probes {
		expected := matchingQueries(pairs, p)
		if len(expected) == 0 {
			continue
		}
		cases = append(cases, QueryTestCase{
			Query:           p,
			ExpectedQueries: expected,
			Description:     fmt.Sprintf("probe %q should retrieve a record containing its terms", p),
		})
	}
	return cases
}

// matchingQueries returns the corpus queries that contain every token of the probe.
func matchingQueries(pairs []models.RecordInput, probe string) []string {
	tokens := corpus.Tokens(probe)
	var out []string
	for _, pair := range pairs {
		norm := corpus.Normalize(pair.Query)
		all := true
		for _, tok := range tokens {
			if !strings.Contains(" "+norm+" ", " "+tok+" ") {
				all = false
				break
			}
		}
		if all {
			out = append(out, pair.Query)
		}
	}
	return out
}

// ExactQueryCases returns queries that differ from a corpus record only in
// case, punctuation, or spacing. They normalize to the stored query, so both
// strategies must rank that record first with similarity 1.0.
func ExactQueryCases() []QueryTestCase {
	variants := []struct {
		query  string
		stored string
	}{
		{"How do I reset my password?", "How do I reset my password"},
		{"I CANNOT LOG INTO MY ACCOUNT!!!", "I cannot log into my account"},
		{"my order arrived damaged...", "My order arrived damaged"},
		{"Do you offer a free trial??", "Do you offer a free trial"},
		{"how do i   export my data", "How do I export my data"},
	}
	cases := make([]QueryTestCase, 0, len(variants))
	for _, v := range variants {
		cases = append(cases, QueryTestCase{
			Query:           v.query,
			ExpectedQueries: []string{v.stored},
			Description:     fmt.Sprintf("%q normalizes to the stored query %q", v.query, v.stored),
		})
	}
	return cases
}
