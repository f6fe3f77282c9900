package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"mime"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var s3Client *s3.Client

func InitS3() {
	s3Region := os.Getenv("S3_REGION")
	if s3Region == "" {
		s3Region = os.Getenv("AWS_REGION") // fallback
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(s3Region))
	if err != nil {
		log.Fatalf("Unable to load AWS config for S3: %v", err)
	}

	s3Client = s3.NewFromConfig(cfg)
}

// DecodeImageDataURI splits a "data:<mime>;base64,<data>" payload into raw
// bytes and the declared content type. Bare base64 without the data: header
// is treated as PNG, which is what the upload widget sends by default.
func DecodeImageDataURI(dataURI string) ([]byte, string, error) {
	contentType := "image/png"
	data := dataURI

	if strings.HasPrefix(dataURI, "data:") {
		parts := strings.Split(dataURI, ",")
		if len(parts) != 2 {
			return nil, "", fmt.Errorf("invalid base64 image")
		}
		mediaType := strings.SplitN(parts[0], ":", 2)[1]   // "image/jpeg;base64"
		contentType = strings.SplitN(mediaType, ";", 2)[0] // "image/jpeg"
		data = parts[1]
	}

	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("unsupported content type %q", contentType)
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %v", err)
	}
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("empty image")
	}
	return raw, contentType, nil
}

// ImageExt maps a content type to a file extension for the S3 key.
func ImageExt(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 {
		return "." + parts[1]
	}
	return ""
}

// UploadImageToS3 stores image bytes under keyPrefix with a random name and
// returns the s3:// URI of the object.
func UploadImageToS3(ctx context.Context, imageData []byte, contentType, keyPrefix string) (string, error) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return "", fmt.Errorf("S3_BUCKET not set")
	}

	key := fmt.Sprintf("%s/%s%s", keyPrefix, uuid.NewString(), ImageExt(contentType))

	_, err := s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}
