// Package domain contains the task entity and its validation rules. It has no
// knowledge of how tasks are stored or delivered.
package domain
