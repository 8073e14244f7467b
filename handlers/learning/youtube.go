package learning

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/7ever/Nerdo.Africa/models"
	"github.com/7ever/Nerdo.Africa/utils"
)

// YouTubeClient searches for tutorial videos per roadmap phase. Several
// API keys can be configured; the client rotates to the next one when the
// current key's quota is exhausted.
type YouTubeClient struct {
	APIKeys []string

	// BaseURL is a field so tests can point the client at a stub server.
	BaseURL    string
	HTTPClient *http.Client
}

func NewYouTubeClient() *YouTubeClient {
	baseURL := os.Getenv("YOUTUBE_BASE_URL")
	if baseURL == "" {
		baseURL = "https://www.googleapis.com"
	}

	var keys []string
	for _, key := range strings.Split(os.Getenv("YOUTUBE_API_KEYS"), ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}

	return &YouTubeClient{
		APIKeys: keys,
		BaseURL: baseURL,
		// The one external call with a deliberately short timeout: a slow
		// video search should not hold a roadmap request hostage.
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

func quotaExhausted(status int, body []byte) bool {
	return status == http.StatusForbidden && strings.Contains(string(body), "quotaExceeded")
}

// SearchVideos returns up to maxResults tutorial videos for the query,
// rotating through the configured API keys on quota exhaustion.
func (y *YouTubeClient) SearchVideos(query string, maxResults int) ([]models.RoadmapVideo, error) {
	if len(y.APIKeys) == 0 {
		return nil, utils.NewExternalError("youtube", utils.KindValidation,
			fmt.Errorf("no API keys configured"))
	}

	var lastErr error
	for _, key := range y.APIKeys {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("q", query+" tutorial")
		params.Set("type", "video")
		params.Set("maxResults", strconv.Itoa(maxResults))
		params.Set("relevanceLanguage", "en")
		params.Set("key", key)

		resp, err := y.HTTPClient.Get(y.BaseURL + "/youtube/v3/search?" + params.Encode())
		if err != nil {
			return nil, utils.NewExternalError("youtube", utils.KindTransient, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		if quotaExhausted(resp.StatusCode, body) {
			lastErr = utils.NewExternalError("youtube", utils.KindTransient,
				fmt.Errorf("quota exhausted for key"))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, utils.NewExternalError("youtube", utils.KindPermanent,
				fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
		}

		var parsed youtubeSearchResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, err
		}

		videos := make([]models.RoadmapVideo, 0, len(parsed.Items))
		for _, item := range parsed.Items {
			videos = append(videos, models.RoadmapVideo{
				Title:     item.Snippet.Title,
				VideoID:   item.ID.VideoID,
				Channel:   item.Snippet.ChannelTitle,
				Thumbnail: item.Snippet.Thumbnails.Medium.URL,
			})
		}
		return videos, nil
	}

	return nil, lastErr
}
