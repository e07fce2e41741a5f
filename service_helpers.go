package main

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// parseInt64 extracts an int64 from a Sidekiq payload argument that may be encoded
// either as a JSON number or as a quoted string.
func parseInt64(raw json.RawMessage) (int64, error) {
	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if asString == "" {
			return 0, fmt.Errorf("empty string")
		}
		v, err := strconv.ParseInt(asString, 10, 64)
		if err != nil {
			return 0, err
		}
		return v, nil
	}

	return 0, fmt.Errorf("unsupported arg: %s", string(raw))
}

var acceptedJobClasses = map[string]bool{
	"BoxPlotWorker": true,
	"GoWorker":      true,
}

func acceptedJobClass(class string) bool {
	return acceptedJobClasses[class]
}

// jobRunID returns the plot run id carried as the first job argument.
func jobRunID(job sidekiqJob) (int64, error) {
	if len(job.Args) == 0 {
		return 0, fmt.Errorf("job %s has no arguments", job.Class)
	}
	id, err := parseInt64(job.Args[0])
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid plot run id %d", id)
	}
	return id, nil
}

func queueKey(name string) string {
	if name == "" {
		name = "default"
	}
	return "queue:" + name
}
