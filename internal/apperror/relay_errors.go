package apperror

var (
	ErrEmailTaken         = AlreadyExists("email is already registered")
	ErrUserNotFound       = NotFound("user not found")
	ErrInvalidCredentials = Unauthorized("invalid email or password")
	ErrMissingToken       = Unauthorized("missing or invalid bearer token")
	ErrInvalidEmail       = InvalidArg("email is not valid")
	ErrInvalidName        = InvalidArg("name must be 1-64 characters")
	ErrWeakPassword       = InvalidArg("password must be 8-20 characters and include upper, lower, number and symbol")
	ErrInvalidPublicKey   = InvalidArg("public keys must be PEM armored SPKI")
	ErrChatNotFound       = NotFound("chat not found")
	ErrNotChatMember      = Forbidden("not a member of this chat")
	ErrSelfChat           = InvalidArg("cannot open a chat with yourself")
	ErrMessageNotFound    = NotFound("message not found")
	ErrNotMessageSender   = Forbidden("only the sender can delete a message")
	ErrSenderMismatch     = Forbidden("sender_id does not match the authenticated user")
	ErrEmptyMessage       = InvalidArg("ciphertext and signature are required")
	ErrUnknownScheme      = InvalidArg("unknown message scheme")
	ErrMessageTooLarge    = New(CodeTooLarge, "message exceeds the relay size limit")
	ErrBadRequestBody     = InvalidArg("request body is not valid JSON")
)
