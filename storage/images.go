package storage

import (
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Unit images live in Cloudinary. Configuration via environment variables:
// CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET,
// CLOUDINARY_FOLDER (optional, defaults to "units").

var ErrImageUpload = errors.New("image upload failed")

func imageFolder() string {
	if folder := os.Getenv("CLOUDINARY_FOLDER"); folder != "" {
		return folder
	}
	return "units"
}

// UploadBase64Image performs a signed upload of a base64-encoded image and
// returns its public URL.
func UploadBase64Image(base64ImageSrc string, publicID string) (string, error) {
	if base64ImageSrc == "" {
		return "", fmt.Errorf("%w: empty image payload", ErrImageUpload)
	}

	payload := base64ImageSrc
	if i := strings.Index(base64ImageSrc, ","); i != -1 {
		payload = base64ImageSrc[i+1:]
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return "", fmt.Errorf("%w: missing Cloudinary credentials", ErrImageUpload)
	}

	finalPublicID := imageFolder() + "/" + publicID

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+payload)
	form.Add("api_key", apiKey)
	form.Add("public_id", finalPublicID)

	return signedCloudinaryCall(cloudName, apiSecret, "upload", finalPublicID, form)
}

// DeleteImage removes a previously uploaded image given its public URL.
func DeleteImage(imageURL string) error {
	if !strings.Contains(imageURL, "res.cloudinary.com") {
		return fmt.Errorf("%w: not a Cloudinary URL", ErrImageUpload)
	}

	parts := strings.Split(imageURL, "/")
	lastPart := parts[len(parts)-1]
	publicID := strings.Split(lastPart, ".")[0]

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return fmt.Errorf("%w: missing Cloudinary credentials", ErrImageUpload)
	}

	finalPublicID := imageFolder() + "/" + publicID

	form := url.Values{}
	form.Add("public_id", finalPublicID)
	form.Add("api_key", apiKey)

	_, err := signedCloudinaryCall(cloudName, apiSecret, "destroy", finalPublicID, form)
	return err
}

func signedCloudinaryCall(cloudName, apiSecret, action, publicID string, form url.Values) (string, error) {
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	form.Add("timestamp", timestamp)

	// Cloudinary signed requests require a SHA1 over the sorted params + secret
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", publicID, timestamp, apiSecret)
	form.Add("signature", fmt.Sprintf("%x", sha1.Sum([]byte(signatureString))))

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/image/" + action
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageUpload, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageUpload, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageUpload, err)
	}
	if res.StatusCode != http.StatusOK {
		log.Printf("cloudinary %s failed with status %d: %s", action, res.StatusCode, string(body))
		return "", fmt.Errorf("%w: status %d", ErrImageUpload, res.StatusCode)
	}

	var cloudRes struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &cloudRes); err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageUpload, err)
	}
	if cloudRes.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", ErrImageUpload, cloudRes.Error.Message)
	}

	out := cloudRes.SecureURL
	if out == "" {
		out = cloudRes.URL
	}
	if out == "" && action == "upload" {
		return "", fmt.Errorf("%w: no URL returned", ErrImageUpload)
	}
	return out, nil
}
