package model

// Package model defines domain data structures shared by the pipeline:
// encoding descriptors, download requests and plans, pipeline states and the
// event variants delivered to the presentation layer. Values are plain data;
// behavior lives in the packages that own them.
