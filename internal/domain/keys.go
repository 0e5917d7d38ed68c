package domain

// KeyPrefix is the namespace for every key the service writes to the store.
const KeyPrefix = "osint:"
