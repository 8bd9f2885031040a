package domain

import (
	interfaces "sealchat/internal/domain/interfaces"
	types "sealchat/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	UserID               = types.UserID
	ChatID               = types.ChatID
	MessageID            = types.MessageID
	Fingerprint          = types.Fingerprint
	Purpose              = types.Purpose
	Role                 = types.Role
	Usage                = types.Usage
	Key                  = types.Key
	EncodedKey           = types.EncodedKey
	EncryptionPublicKey  = types.EncryptionPublicKey
	EncryptionPrivateKey = types.EncryptionPrivateKey
	SigningPublicKey     = types.SigningPublicKey
	SigningPrivateKey    = types.SigningPrivateKey
	EncryptionKeyPair    = types.EncryptionKeyPair
	SigningKeyPair       = types.SigningKeyPair
	Identity             = types.Identity
	PublicIdentity       = types.PublicIdentity
	AccountProfile       = types.AccountProfile
	RegisterRequest      = types.RegisterRequest
	LoginRequest         = types.LoginRequest
	Session              = types.Session
	PublicKeys           = types.PublicKeys
	UserSummary          = types.UserSummary
	Chat                 = types.Chat
	OpenChatRequest      = types.OpenChatRequest
	Scheme               = types.Scheme
	Sealed               = types.Sealed
	SealedMessage        = types.SealedMessage
	SendMessageRequest   = types.SendMessageRequest
	Status               = types.Status
	ReceivedMessage      = types.ReceivedMessage
)

// Constants re-exported from the types subpackage.
const (
	PurposeEncryption = types.PurposeEncryption
	PurposeSigning    = types.PurposeSigning
	RolePublic        = types.RolePublic
	RolePrivate       = types.RolePrivate
	UsageEncrypt      = types.UsageEncrypt
	UsageDecrypt      = types.UsageDecrypt
	UsageSign         = types.UsageSign
	UsageVerify       = types.UsageVerify

	SchemeRSAOAEP = types.SchemeRSAOAEP
	SchemeHybrid  = types.SchemeHybrid

	StatusVerified      = types.StatusVerified
	StatusUntrusted     = types.StatusUntrusted
	StatusUnreadable    = types.StatusUnreadable
	StatusOutgoing      = types.StatusOutgoing
	StatusSenderUnknown = types.StatusSenderUnknown
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityService  = interfaces.IdentityService
	AccountService   = interfaces.AccountService
	DirectoryService = interfaces.DirectoryService
	ChatService      = interfaces.ChatService
	MessageService   = interfaces.MessageService
	RelayClient      = interfaces.RelayClient
	IdentityStore    = interfaces.IdentityStore
	PeerKeyStore     = interfaces.PeerKeyStore
	ChatStore        = interfaces.ChatStore
	AccountStore     = interfaces.AccountStore
)
