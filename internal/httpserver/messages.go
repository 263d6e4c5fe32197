package httpserver

// Flash and response texts shown to users.
const (
	MsgEmailInUse         = "Email already in use"
	MsgInvalidCredentials = "Invalid credentials"

	MsgCarAdded    = "Car added!"
	MsgCarUpdated  = "Car updated"
	MsgCarDeleted  = "Car deleted"
	MsgCarNotFound = "Car not found"
	MsgNotAnImage  = "Only image files can be uploaded"

	MsgCartCarNotFound = "Car not found."
	MsgAddedToCart     = "Car added to cart."
	MsgItemRemoved     = "Item removed."
	MsgCheckedOut      = "Checkout complete!"

	MsgEmptyReview     = "Message cannot be empty."
	MsgReviewSubmitted = "Review submitted!"

	MsgUserPromoted = "User promoted to admin"
	MsgUserNotFound = "User not found"
)
