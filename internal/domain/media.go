package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaUpload stores metadata about an image or video a coach uploaded for
// a program header or catalog item. The actual file resides in S3; clients
// upload directly via a presigned URL.
type MediaUpload struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"` // Uploading coach
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"`   // The unique key in the S3 bucket - internal use
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"` // MIME type (e.g. "image/jpeg")
	Size        int64              `bson:"size,omitempty" json:"size,omitempty"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
