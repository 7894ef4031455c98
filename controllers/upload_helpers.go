package controllers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/DenisSivko/hw05-final/utils/fileformat"

	aws2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
)

const maxImageSize = 5 << 20

// savePostImage stores the optional "image" form file and returns the
// stored path or URL. No file attached is fine: posts do not require an
// image. With S3_BUCKET configured the bytes go to S3 under PostImages/
// (the same flow avatars use); otherwise they land in a local media
// directory so development and tests need no AWS account.
func savePostImage(c *gin.Context) (string, map[string]string) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	f, err := file.Open()
	if err != nil {
		return "", map[string]string{"Invalid_image": "Cannot open uploaded file"}
	}
	defer f.Close()

	if file.Size > maxImageSize {
		return "", map[string]string{"Invalid_image": "Image too large (<5MB)"}
	}

	buf, err := io.ReadAll(f)
	if err != nil {
		return "", map[string]string{"Invalid_image": "Could not read file"}
	}

	fileType := http.DetectContentType(buf)
	if !strings.HasPrefix(fileType, "image/") {
		return "", map[string]string{"Invalid_image": "Not an image"}
	}

	name := fileformat.UniqueFormat(file.Filename)

	if bucket := strings.SplitN(os.Getenv("S3_BUCKET"), "/", 2)[0]; bucket != "" {
		url, err := uploadImageToS3(bucket, "PostImages/"+name, buf, fileType)
		if err != nil {
			log.Printf("S3 upload failed: %v", err)
			return "", map[string]string{"Upload_error": "Failed to upload image"}
		}
		return url, nil
	}

	dir := os.Getenv("MEDIA_ROOT")
	if dir == "" {
		dir = filepath.Join("media", "posts")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", map[string]string{"Upload_error": "Failed to store image"}
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", map[string]string{"Upload_error": "Failed to store image"}
	}
	return path, nil
}

func uploadImageToS3(bucket, key string, body []byte, contentType string) (string, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	cfg, err := config.LoadDefaultConfig(
		context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		return "", err
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	_, err = s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:        aws2.String(bucket),
		Key:           aws2.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws2.Int64(int64(len(body))),
		ContentType:   aws2.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key), nil
}
