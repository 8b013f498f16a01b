package utils

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"variantstore/api/models"
)

// CreateEsConnection builds a client whose writes are attempted exactly once;
// a failed write is reported, never retried.
func CreateEsConnection(cfg *models.Config) (*es7.Client, error) {
	esCfg := es7.Config{
		Addresses: []string{cfg.Elasticsearch.Url},
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,

		DisableRetry: true,

		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 30 * time.Second,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.Debug,
			},
		},
	}

	client, err := es7.NewClient(esCfg)
	if err != nil {
		return nil, errors.Wrap(err, "creating elasticsearch client")
	}

	log.Debug.Printf("using ES7 client version %s", es7.Version)
	return client, nil
}

// WaitForEs pings the cluster with exponential backoff until it answers or the timeout elapses.
func WaitForEs(ctx context.Context, client *es7.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = timeout

	attempt := 0
	ping := func() error {
		attempt++
		res, err := client.Ping(client.Ping.WithContext(ctx))
		if err != nil {
			log.Debug.Printf("elasticsearch not reachable yet (attempt %d): %v", attempt, err)
			return err
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("elasticsearch ping returned %s", res.Status())
		}
		return nil
	}

	if err := backoff.Retry(ping, backoff.WithContext(policy, ctx)); err != nil {
		return errors.Wrapf(err, "elasticsearch unavailable after %d attempts", attempt)
	}
	return nil
}
